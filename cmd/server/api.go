package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/document"
	"github.com/ehc32/Cotizador-V1/internal/flow"
	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Current().Definition())
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req pricing.Request
	if !s.decodeJSON(w, r, &req) {
		return
	}

	q, err := pricing.Compute(req, s.catalog.Current())
	if err != nil {
		s.writeQuoteError(w, "api.quote", err)
		return
	}
	s.metrics.QuoteComputed(q.Summary.TotalArea)
	writeJSON(w, http.StatusOK, q)
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Expose-Headers", "Content-Disposition")
}

func (s *server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())
	w.WriteHeader(http.StatusOK)
}

func (s *server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())

	var q pricing.Quote
	if !s.decodeJSON(w, r, &q) {
		return
	}
	s.writeDocument(w, "api.generate-pdf", q)
}

// writeDocument renders q and streams it as an attachment. A render failure
// leaves nothing behind, so the client can retry with the same quote.
func (s *server) writeDocument(w http.ResponseWriter, op string, q pricing.Quote) {
	doc, err := s.documents.Generate(q, s.now())
	if err != nil {
		if errors.Is(err, document.ErrIncompleteData) {
			section := q.MissingSection()
			writeError(w, http.StatusBadRequest, "IncompleteData", incompleteMessage(section), section)
			return
		}
		s.metrics.DocumentRendered("", false)
		s.logger.Error("document generation failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "RenderError", msgPDFFailed, "")
		return
	}
	s.metrics.DocumentRendered(doc.Renderer, true)
	s.logger.Info("document generated",
		zap.String("op", op),
		zap.String("renderer", doc.Renderer),
		zap.Int("bytes", len(doc.Data)),
	)

	h := w.Header()
	h.Set("Content-Type", doc.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	h.Set("Content-Length", strconv.Itoa(len(doc.Data)))
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

type chatSessionResponse struct {
	SessionID string      `json:"sessionId"`
	Prompt    flow.Prompt `json:"prompt"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type answerErrorResponse struct {
	errorResponse
	Prompt flow.Prompt `json:"prompt"`
}

func (s *server) handleChatStart(w http.ResponseWriter, r *http.Request) {
	id, prompt, err := s.flows.Start()
	if err != nil {
		s.writeFlowError(w, "api.chat.start", err)
		return
	}
	s.metrics.SetSessions(s.flows.Len())
	writeJSON(w, http.StatusCreated, chatSessionResponse{SessionID: id, Prompt: prompt})
}

func (s *server) handleChatPrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prompt, err := s.flows.Prompt(id)
	if err != nil {
		s.writeFlowError(w, "api.chat.prompt", err)
		return
	}
	writeJSON(w, http.StatusOK, chatSessionResponse{SessionID: id, Prompt: prompt})
}

func (s *server) handleChatAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body answerRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}

	prompt, err := s.flows.Answer(id, body.Answer)
	if errors.Is(err, flow.ErrInvalidAnswer) {
		writeJSON(w, http.StatusBadRequest, answerErrorResponse{
			errorResponse: errorResponse{Error: "InvalidAnswer", Message: "Respuesta no válida: " + answerDetail(err)},
			Prompt:        prompt,
		})
		return
	}
	if err != nil {
		s.writeFlowError(w, "api.chat.answer", err)
		return
	}
	writeJSON(w, http.StatusOK, chatSessionResponse{SessionID: id, Prompt: prompt})
}

func (s *server) handleChatPDF(w http.ResponseWriter, r *http.Request) {
	q, err := s.flows.Quote(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFlowError(w, "api.chat.pdf", err)
		return
	}
	s.writeDocument(w, "api.chat.pdf", q)
}
