package perplexity

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// blockEvent builds a raw event containing one markdown block with the
// given chunk-add patches.
func blockEvent(usage string, chunks ...string) []byte {
	event := `{"blocks":[{"intended_usage":"` + usage + `","diff_block":{"field":"markdown_block","patches":[`
	for i, chunk := range chunks {
		if i > 0 {
			event += ","
		}
		event += `{"op":"add","path":"/chunks/0","value":"` + chunk + `"}`
	}
	return []byte(event + `]}}]}`)
}

var _ = Describe("Extractor", func() {
	var ex *Extractor

	BeforeEach(func() {
		ex = NewExtractor()
	})

	Describe("ProcessEvent", func() {
		It("yields fragments from markdown blocks in arrival order", func() {
			Expect(ex.ProcessEvent(blockEvent("ask_text_markdown", "Hel"))).To(Equal([]string{"Hel"}))
			Expect(ex.ProcessEvent(blockEvent("ask_text_markdown", "lo"))).To(Equal([]string{"lo"}))
			Expect(ex.FullText()).To(Equal("Hello"))
		})

		It("yields multiple fragments from a single event", func() {
			Expect(ex.ProcessEvent(blockEvent("ask_text_markdown", "a", "b", "c"))).To(Equal([]string{"a", "b", "c"}))
		})

		It("returns nil for a malformed event", func() {
			Expect(ex.ProcessEvent([]byte(`{broken`))).To(BeNil())
			Expect(ex.FullText()).To(Equal(""))
		})

		It("ignores non-markdown blocks", func() {
			Expect(ex.ProcessEvent(blockEvent("pro_search_steps", "noise"))).To(BeNil())
			Expect(ex.FullText()).To(Equal(""))
		})

		It("ignores markdown blocks without a diff block", func() {
			evt := []byte(`{"blocks":[{"intended_usage":"ask_text_markdown","markdown_block":{"answer":"x"}}]}`)
			Expect(ex.ProcessEvent(evt)).To(BeNil())
		})

		It("suppresses empty fragments", func() {
			fragments := ex.ProcessEvent(blockEvent("ask_text_markdown", "", "x", ""))
			Expect(fragments).To(Equal([]string{"x"}))
		})

		It("records the first display model and keeps it", func() {
			ex.ProcessEvent([]byte(`{"display_model":"claude45sonnetthinking"}`))
			ex.ProcessEvent([]byte(`{"display_model":"other"}`))
			Expect(ex.Session().Model).To(Equal("claude45sonnetthinking"))
		})

		It("latches completion on text_completed", func() {
			ex.ProcessEvent(blockEvent("ask_text_markdown", "x"))
			Expect(ex.Complete()).To(BeFalse())
			ex.ProcessEvent([]byte(`{"text_completed":true}`))
			Expect(ex.Complete()).To(BeTrue())
		})
	})

	Describe("FullText", func() {
		It("merges answer sections in lexicographic tag order", func() {
			ex.ProcessEvent(blockEvent("ask_text_2_markdown", "B"))
			ex.ProcessEvent(blockEvent("ask_text_1_markdown", "A"))
			Expect(ex.FullText()).To(Equal("AB"))
		})
	})

	Describe("Complete", func() {
		It("is true once every block reports DONE", func() {
			ex.ProcessEvent(blockEvent("ask_text_markdown", "x"))
			done := []byte(`{"blocks":[{"intended_usage":"ask_text_markdown","diff_block":{"patches":[{"op":"replace","path":"/progress","value":"DONE"}]}}]}`)
			ex.ProcessEvent(done)
			Expect(ex.Complete()).To(BeTrue())
		})
	})
})

var _ = Describe("collectFinalStep", func() {
	var resp *Response

	BeforeEach(func() {
		resp = &Response{Citations: []Citation{}, RelatedQueries: []string{}}
	})

	It("collects related queries from the FINAL event", func() {
		collectFinalStep([]byte(`{"step_type":"FINAL","related_queries":["a","b"]}`), resp)
		Expect(resp.RelatedQueries).To(Equal([]string{"a", "b"}))
	})

	It("collects citations from nested SEARCH_RESULTS steps", func() {
		inner := `[{"step_type":"SEARCH_RESULTS","content":{"web_results":[{"name":"Go","url":"https://go.dev","snippet":"The Go site"},{"name":"","url":"https://skip.me"}]}}]`
		encoded, err := json.Marshal(inner)
		Expect(err).NotTo(HaveOccurred())
		event := `{"step_type":"FINAL","text":` + string(encoded) + `}`
		collectFinalStep([]byte(event), resp)
		Expect(resp.Citations).To(HaveLen(1))
		Expect(resp.Citations[0].Title).To(Equal("Go"))
		Expect(resp.Citations[0].URL).To(Equal("https://go.dev"))
		Expect(resp.Citations[0].Snippet).To(Equal("The Go site"))
	})

	It("ignores non-FINAL events", func() {
		collectFinalStep([]byte(`{"step_type":"SEARCH","related_queries":["x"]}`), resp)
		Expect(resp.RelatedQueries).To(BeEmpty())
	})

	It("tolerates malformed nesting", func() {
		collectFinalStep([]byte(`{"step_type":"FINAL","text":"not a json list"}`), resp)
		Expect(resp.Citations).To(BeEmpty())
	})
})
