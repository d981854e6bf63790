package perplexity

import "encoding/json"

// The terminal FINAL event carries the completed answer as a nested
// JSON document: a "text" field holding an encoded list of steps, where
// SEARCH_RESULTS steps contribute citations and the inner FINAL step
// holds the answer. Only Ask consumes this shape; the streaming path
// reconstructs text from diff patches instead.

type finalEvent struct {
	StepType       string   `json:"step_type"`
	RelatedQueries []string `json:"related_queries"`
	Text           string   `json:"text"`
}

type finalStep struct {
	StepType string          `json:"step_type"`
	Content  json.RawMessage `json:"content"`
}

type searchResultsContent struct {
	WebResults []struct {
		Name    string `json:"name"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"web_results"`
}

// collectFinalStep scans one raw event for FINAL-step data and merges
// citations and related queries into resp. Non-FINAL events and any
// malformed nesting are ignored.
func collectFinalStep(data []byte, resp *Response) {
	var ev finalEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.StepType != "FINAL" {
		return
	}

	if len(ev.RelatedQueries) > 0 {
		resp.RelatedQueries = ev.RelatedQueries
	}
	if ev.Text == "" {
		return
	}

	var steps []finalStep
	if err := json.Unmarshal([]byte(ev.Text), &steps); err != nil {
		return
	}

	for _, step := range steps {
		if step.StepType != "SEARCH_RESULTS" {
			continue
		}
		var content searchResultsContent
		if err := json.Unmarshal(step.Content, &content); err != nil {
			continue
		}
		for _, wr := range content.WebResults {
			if wr.Name == "" || wr.URL == "" {
				continue
			}
			resp.Citations = append(resp.Citations, Citation{
				Title:   wr.Name,
				URL:     wr.URL,
				Snippet: wr.Snippet,
			})
		}
	}
}
