package perplexity

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseEvent", func() {
	It("decodes a full event", func() {
		ev := ParseEvent([]byte(`{
			"backend_uuid": "b-1",
			"uuid": "u-1",
			"display_model": "claude45sonnetthinking",
			"mode": "copilot",
			"search_focus": "internet",
			"text_completed": true,
			"message_mode": "FULL",
			"blocks": [
				{
					"intended_usage": "ask_text_markdown",
					"diff_block": {
						"field": "markdown_block",
						"patches": [{"op": "add", "path": "/chunks/0", "value": "hi"}]
					}
				}
			]
		}`))

		Expect(ev).NotTo(BeNil())
		Expect(ev.BackendUUID).To(Equal("b-1"))
		Expect(ev.DisplayModel).To(Equal("claude45sonnetthinking"))
		Expect(ev.TextCompleted).To(BeTrue())
		Expect(ev.MessageMode).To(Equal("FULL"))
		Expect(ev.Blocks).To(HaveLen(1))
		Expect(ev.Blocks[0].IntendedUsage).To(Equal("ask_text_markdown"))
		Expect(ev.Blocks[0].DiffBlock).NotTo(BeNil())
		Expect(ev.Blocks[0].DiffBlock.Patches).To(HaveLen(1))
	})

	It("returns nil for invalid JSON", func() {
		Expect(ParseEvent([]byte(`{not json`))).To(BeNil())
	})

	It("returns nil for a payload of the wrong shape", func() {
		Expect(ParseEvent([]byte(`["a", "list"]`))).To(BeNil())
	})

	It("defaults message_mode to STREAMING when absent", func() {
		ev := ParseEvent([]byte(`{"backend_uuid": "b-1"}`))
		Expect(ev).NotTo(BeNil())
		Expect(ev.MessageMode).To(Equal("STREAMING"))
	})

	It("drops a malformed block but keeps the rest", func() {
		ev := ParseEvent([]byte(`{
			"blocks": [
				"not an object",
				{"intended_usage": "ask_text_markdown"}
			]
		}`))
		Expect(ev).NotTo(BeNil())
		Expect(ev.Blocks).To(HaveLen(1))
		Expect(ev.Blocks[0].IntendedUsage).To(Equal("ask_text_markdown"))
	})

	It("drops blocks without a usage tag", func() {
		ev := ParseEvent([]byte(`{"blocks": [{"diff_block": {"patches": []}}]}`))
		Expect(ev).NotTo(BeNil())
		Expect(ev.Blocks).To(BeEmpty())
	})
})

var _ = Describe("IsMarkdownBlock", func() {
	It("accepts the combined answer tag", func() {
		Expect(IsMarkdownBlock("ask_text_markdown")).To(BeTrue())
	})

	It("accepts numbered section tags", func() {
		Expect(IsMarkdownBlock("ask_text_0_markdown")).To(BeTrue())
		Expect(IsMarkdownBlock("ask_text_12_markdown")).To(BeTrue())
	})

	It("accepts non-numeric infixes", func() {
		Expect(IsMarkdownBlock("ask_text_summary_markdown")).To(BeTrue())
	})

	It("rejects other usage tags", func() {
		Expect(IsMarkdownBlock("")).To(BeFalse())
		Expect(IsMarkdownBlock("pro_search_steps")).To(BeFalse())
		Expect(IsMarkdownBlock("ask_text_plan")).To(BeFalse())
		Expect(IsMarkdownBlock("answer_markdown")).To(BeFalse())
	})
})
