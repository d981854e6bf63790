package api

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ardzz/perplexity-scrape/pkg/adapter"
	"github.com/ardzz/perplexity-scrape/pkg/modelmap"
	"github.com/ardzz/perplexity-scrape/pkg/openai"
)

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "perplexity-scrape",
	})
}

// handleListModels returns all resolvable model aliases.
func (s *Server) handleListModels(c *fiber.Ctx) error {
	now := time.Now().Unix()
	aliases := modelmap.List()

	models := make([]openai.ModelInfo, 0, len(aliases))
	for _, alias := range aliases {
		models = append(models, openai.ModelInfo{
			ID:      alias,
			Object:  "model",
			Created: now,
			OwnedBy: "perplexity",
		})
	}

	return c.JSON(openai.ModelListResponse{
		Object: "list",
		Data:   models,
	})
}

// handleChatCompletions serves POST /v1/chat/completions, streaming or
// not depending on the request body.
func (s *Server) handleChatCompletions(c *fiber.Ctx) error {
	var req openai.ChatCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return s.renderError(c, fiber.StatusBadRequest, openai.ErrTypeInvalidRequest,
			"request body is not a valid chat completion request", "")
	}
	if req.Model == "" {
		return s.renderError(c, fiber.StatusBadRequest, openai.ErrTypeInvalidRequest,
			"model is required", "model")
	}
	if len(req.Messages) == 0 {
		return s.renderError(c, fiber.StatusBadRequest, openai.ErrTypeInvalidRequest,
			"messages must contain at least one message", "messages")
	}

	s.logger.Info("chat completion request",
		zap.String("model", req.Model),
		zap.Bool("stream", req.Stream),
		zap.Int("messages", len(req.Messages)),
	)

	if req.Stream {
		return s.handleStreamingCompletion(c, req)
	}

	return s.handleCompletion(c, req)
}

// handleCompletion serves the non-streaming path.
func (s *Server) handleCompletion(c *fiber.Ctx, req openai.ChatCompletionRequest) error {
	text, model, err := s.adapter.Complete(c.Context(), req.Messages, req.Model)
	if err != nil {
		s.logger.Error("completion failed", zap.Error(err))
		return s.renderError(c, fiber.StatusServiceUnavailable, openai.ErrTypeServiceUnavailable,
			"upstream request failed", "")
	}

	return c.JSON(openai.NewCompletion(text, model))
}

// handleStreamingCompletion serves the streaming path as a
// text/event-stream body of OpenAI delta chunks.
func (s *Server) handleStreamingCompletion(c *fiber.Ctx, req openai.ChatCompletionRequest) error {
	// Use context.Background() instead of c.Context() because fasthttp
	// recycles its RequestCtx after the handler returns, while the body
	// stream below is consumed afterwards and needs the upstream
	// connection to stay open.
	frags, model, err := s.adapter.Stream(context.Background(), req.Messages, req.Model)
	if err != nil {
		s.logger.Error("stream failed", zap.Error(err))
		return s.renderError(c, fiber.StatusServiceUnavailable, openai.ErrTypeServiceUnavailable,
			"upstream request failed", "")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	// Disable nginx buffering so chunks reach the client as they are produced.
	c.Set("X-Accel-Buffering", "no")

	// io.Pipe gives direct backpressure: pw.Write blocks until fasthttp
	// flushed the previous chunk to the socket, so a slow client
	// throttles upstream consumption instead of growing a buffer.
	pr, pw := io.Pipe()
	go s.writeStream(pw, frags, model)

	c.Context().Response.SetBodyStream(pr, -1)
	return nil
}

// writeStream renders fragments as SSE chunks into the pipe. A write
// error means the downstream client went away; the deferred Close
// releases the upstream connection either way.
func (s *Server) writeStream(pw *io.PipeWriter, frags *adapter.Fragments, model string) {
	defer frags.Close()
	defer pw.Close()

	formatter := openai.NewStreamFormatterForSession(model, frags.Session())

	if _, err := io.WriteString(pw, formatter.RoleChunk()); err != nil {
		return
	}

	for {
		fragment, ok, err := frags.Next()
		if err != nil {
			s.logger.Error("error reading upstream stream", zap.Error(err))
			return
		}
		if !ok {
			break
		}
		if _, err := io.WriteString(pw, formatter.ContentChunk(fragment)); err != nil {
			return
		}
	}

	if _, err := io.WriteString(pw, formatter.FinalChunk()); err != nil {
		return
	}
}

// renderError writes an OpenAI-format error object. Raw upstream errors
// never reach the client.
func (s *Server) renderError(c *fiber.Ctx, status int, errType, message, param string) error {
	return c.Status(status).JSON(openai.ErrorResponse{
		Error: openai.ErrorDetail{
			Message: message,
			Type:    errType,
			Param:   param,
		},
	})
}
