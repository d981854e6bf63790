package perplexity

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ardzz/perplexity-scrape/pkg/patch"
)

func chunkAdd(text string) patch.Patch {
	value, err := json.Marshal(text)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return patch.Patch{Op: patch.OpAdd, Path: "/chunks/0", Value: value}
}

var doneProgress = patch.Patch{
	Op:    patch.OpReplace,
	Path:  "/progress",
	Value: json.RawMessage(`"DONE"`),
}

var _ = Describe("NewCompletionID", func() {
	It("mints OpenAI-style identifiers", func() {
		id := NewCompletionID()
		Expect(id).To(HavePrefix("chatcmpl-"))
		Expect(id).To(HaveLen(len("chatcmpl-") + 24))
		suffix := strings.TrimPrefix(id, "chatcmpl-")
		Expect(suffix).NotTo(ContainSubstring("-"), "no dashes after the prefix")
	})

	It("mints unique identifiers", func() {
		Expect(NewCompletionID()).NotTo(Equal(NewCompletionID()))
	})
})

var _ = Describe("Session", func() {
	var session *Session

	BeforeEach(func() {
		session = NewSession()
	})

	It("mints a completion id and timestamp on creation", func() {
		Expect(session.CompletionID).To(HavePrefix("chatcmpl-"))
		Expect(session.Created).To(BeNumerically(">", 0))
	})

	Describe("Aggregator", func() {
		It("returns the same aggregator for the same tag", func() {
			a := session.Aggregator("ask_text_markdown")
			b := session.Aggregator("ask_text_markdown")
			Expect(a).To(BeIdenticalTo(b))
		})

		It("returns distinct aggregators for distinct tags", func() {
			a := session.Aggregator("ask_text_1_markdown")
			b := session.Aggregator("ask_text_2_markdown")
			Expect(a).NotTo(BeIdenticalTo(b))
		})
	})

	Describe("AllText", func() {
		It("merges aggregators in lexicographic tag order", func() {
			// Populate deliberately out of order.
			session.Aggregator("ask_text_2_markdown").Apply(chunkAdd("world"))
			session.Aggregator("ask_text_1_markdown").Apply(chunkAdd("hello "))
			Expect(session.AllText()).To(Equal("hello world"))
		})

		It("is empty with no aggregators", func() {
			Expect(session.AllText()).To(Equal(""))
		})
	})

	Describe("AllComplete", func() {
		It("is vacuously true with no aggregators", func() {
			Expect(session.AllComplete()).To(BeTrue())
		})

		It("is false while any aggregator is unfinished", func() {
			session.Aggregator("ask_text_1_markdown").Apply(doneProgress)
			session.Aggregator("ask_text_2_markdown").Apply(chunkAdd("x"))
			Expect(session.AllComplete()).To(BeFalse())
		})

		It("is true once every aggregator reports DONE", func() {
			session.Aggregator("ask_text_1_markdown").Apply(doneProgress)
			session.Aggregator("ask_text_2_markdown").Apply(doneProgress)
			Expect(session.AllComplete()).To(BeTrue())
		})

		It("is latched true by SetTextCompleted regardless of aggregators", func() {
			session.Aggregator("ask_text_1_markdown").Apply(chunkAdd("x"))
			session.SetTextCompleted()
			Expect(session.AllComplete()).To(BeTrue())
		})
	})

	It("keeps long answers intact", func() {
		agg := session.Aggregator("ask_text_markdown")
		piece := strings.Repeat("a", 100)
		for i := 0; i < 50; i++ {
			agg.Apply(chunkAdd(piece))
		}
		Expect(session.AllText()).To(HaveLen(5000))
	})
})
