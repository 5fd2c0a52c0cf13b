package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ehc32/Cotizador-V1/internal/catalog"
	"github.com/ehc32/Cotizador-V1/internal/flow"
	"github.com/ehc32/Cotizador-V1/internal/pricing"
)

const (
	msgInvalidJSON  = "El cuerpo de la solicitud no es JSON válido."
	msgBodyTooLarge = "La solicitud es demasiado grande."
	msgQuoteFailed  = "Hubo un error al calcular la cotización. Por favor intenta nuevamente."
	msgPDFFailed    = "Hubo un error al generar el PDF. Por favor intenta nuevamente."
	msgInternal     = "Error interno del servidor. Por favor intenta nuevamente."
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message, Field: field})
}

// decodeJSON reads a size-limited body holding exactly one JSON value with
// no unknown keys into dst. On failure it writes the response and returns
// false.
func (s *server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
			var tooLarge *http.MaxBytesError
			if errors.As(extra, &tooLarge) {
				err = extra
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "BodyTooLarge", msgBodyTooLarge, "")
			return false
		}
		s.logger.Debug("rejected request body", zap.String("op", "http.decode"), zap.Error(err))
		writeError(w, http.StatusBadRequest, "InvalidRequest", msgInvalidJSON, "")
		return false
	}
	return true
}

var errTrailingData = errors.New("unexpected data after JSON body")

// writeQuoteError maps calculator failures. Validation problems name the
// offending field in Spanish; anything else is reported generically.
func (s *server) writeQuoteError(w http.ResponseWriter, op string, err error) {
	var verr *pricing.ValidationError
	if errors.As(err, &verr) {
		code, message := validationMessage(verr)
		writeError(w, http.StatusBadRequest, code, message, verr.Field)
		return
	}
	s.logger.Error("quote computation failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "InternalError", msgQuoteFailed, "")
}

func validationMessage(verr *pricing.ValidationError) (string, string) {
	switch {
	case errors.Is(verr, pricing.ErrInvalidBedType):
		return "InvalidBedType", fmt.Sprintf("Tipo de cama no válido en %s.", verr.Field)
	case errors.Is(verr, pricing.ErrInvalidSpace):
		return "InvalidSpace", fmt.Sprintf("Espacio adicional no válido o repetido en %s.", verr.Field)
	default:
		return "InvalidRequest", fmt.Sprintf("Dato no válido en %s.", verr.Field)
	}
}

// incompleteMessage describes a missing quote section the way the PDF
// endpoint reports it.
func incompleteMessage(section string) string {
	switch section {
	case "clientInfo":
		return "Falta información del cliente."
	case "summary":
		return "Faltan datos del resumen en la cotización."
	case "summary.totalArea":
		return "Área total inválida."
	case "quote":
		return "Faltan datos de cotización."
	default:
		return "Datos de cotización incompletos."
	}
}

func (s *server) writeFlowError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, flow.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "SessionNotFound", "La conversación no existe o expiró. Inicia una nueva.", "")
	case errors.Is(err, flow.ErrInvalidAnswer):
		writeError(w, http.StatusBadRequest, "InvalidAnswer", "Respuesta no válida: "+answerDetail(err), "")
	case errors.Is(err, flow.ErrNotConfirmed):
		writeError(w, http.StatusConflict, "NotConfirmed", "Confirma la cotización antes de descargar el PDF.", "")
	default:
		s.logger.Error("conversation failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "InternalError", msgQuoteFailed, "")
	}
}

// answerDetail strips the sentinel prefix from an invalid-answer error.
func answerDetail(err error) string {
	return strings.TrimPrefix(err.Error(), flow.ErrInvalidAnswer.Error()+": ")
}

func (s *server) writeCatalogError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownIdentifier):
		writeError(w, http.StatusNotFound, "NotFound", "El elemento del catálogo no existe.", "")
	case errors.Is(err, catalog.ErrInvalidCatalog):
		writeError(w, http.StatusBadRequest, "InvalidCatalog", "Los valores deben ser números mayores a 0.", "")
	default:
		s.logger.Error("catalog update failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "InternalError", msgInternal, "")
	}
}
