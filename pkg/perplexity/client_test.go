package perplexity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var testCreds = Credentials{
	SessionToken: "token",
	CFClearance:  "clearance",
	VisitorID:    "visitor",
}

// sseUpstream fakes the answer endpoint: it captures the request and
// replies with a fixed sequence of SSE data events.
func sseUpstream(events []string, capture *http.Request) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = *r.Clone(context.Background())
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, event := range events {
			_, _ = w.Write([]byte("event: message\ndata: " + event + "\n\n"))
		}
	}))
}

var _ = Describe("NewClient", func() {
	It("rejects incomplete credentials", func() {
		_, err := NewClient(Credentials{SessionToken: "only"}, zap.NewNop())
		Expect(err).To(MatchError(ErrMissingCredentials))
	})

	It("accepts the three mandatory cookies", func() {
		client, err := NewClient(testCreds, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(client).NotTo(BeNil())
	})
})

var _ = Describe("Client", func() {
	Describe("AskStream", func() {
		It("sends the session cookies and query payload", func() {
			var captured http.Request
			srv := sseUpstream([]string{`{"text_completed":true}`}, &captured)
			defer srv.Close()

			client, err := NewClient(testCreds, zap.NewNop(), WithBaseURL(srv.URL))
			Expect(err).NotTo(HaveOccurred())

			stream, err := client.AskStream(context.Background(), Query{
				Text:      "what is Go",
				Mode:      "copilot",
				Incognito: true,
			})
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()

			cookie, err := captured.Cookie("__Secure-next-auth.session-token")
			Expect(err).NotTo(HaveOccurred())
			Expect(cookie.Value).To(Equal("token"))
			cookie, err = captured.Cookie("cf_clearance")
			Expect(err).NotTo(HaveOccurred())
			Expect(cookie.Value).To(Equal("clearance"))
			Expect(captured.Header.Get("Accept")).To(Equal("text/event-stream"))
		})

		It("yields raw event payloads until exhaustion", func() {
			srv := sseUpstream([]string{`{"a":1}`, `{"b":2}`}, nil)
			defer srv.Close()

			client, err := NewClient(testCreds, zap.NewNop(), WithBaseURL(srv.URL))
			Expect(err).NotTo(HaveOccurred())

			stream, err := client.AskStream(context.Background(), Query{Text: "q"})
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()

			data, err := stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"a":1}`))

			data, err = stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"b":2}`))

			data, err = stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(BeNil())
		})

		It("surfaces non-200 upstream responses as errors", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("blocked"))
			}))
			defer srv.Close()

			client, err := NewClient(testCreds, zap.NewNop(), WithBaseURL(srv.URL))
			Expect(err).NotTo(HaveOccurred())

			_, err = client.AskStream(context.Background(), Query{Text: "q"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("403"))
		})
	})

	Describe("Ask", func() {
		It("aggregates the full answer with citations and related queries", func() {
			inner := `[{"step_type":"SEARCH_RESULTS","content":{"web_results":[{"name":"Docs","url":"https://example.com","snippet":"snippet"}]}}]`
			encoded, err := json.Marshal(inner)
			Expect(err).NotTo(HaveOccurred())

			srv := sseUpstream([]string{
				`{"display_model":"claude45sonnetthinking","blocks":[{"intended_usage":"ask_text_markdown","diff_block":{"patches":[{"op":"add","path":"/chunks/0","value":"Hel"}]}}]}`,
				`{"blocks":[{"intended_usage":"ask_text_markdown","diff_block":{"patches":[{"op":"add","path":"/chunks/1","value":"lo"}]}}]}`,
				`{"step_type":"FINAL","related_queries":["next question"],"text":` + string(encoded) + `,"text_completed":true}`,
			}, nil)
			defer srv.Close()

			client, err := NewClient(testCreds, zap.NewNop(), WithBaseURL(srv.URL))
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.Ask(context.Background(), Query{Text: "q", Incognito: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Text).To(Equal("Hello"))
			Expect(resp.Model).To(Equal("claude45sonnetthinking"))
			Expect(resp.RelatedQueries).To(Equal([]string{"next question"}))
			Expect(resp.Citations).To(HaveLen(1))
			Expect(resp.Citations[0].URL).To(Equal("https://example.com"))
		})

		It("returns an empty response for a stream with no answer blocks", func() {
			srv := sseUpstream([]string{`{"text_completed":true}`}, nil)
			defer srv.Close()

			client, err := NewClient(testCreds, zap.NewNop(), WithBaseURL(srv.URL))
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.Ask(context.Background(), Query{Text: "q"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Text).To(Equal(""))
			Expect(resp.Citations).To(BeEmpty())
			Expect(resp.RelatedQueries).To(BeEmpty())
		})
	})
})
