package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing useful left to do.
		return
	}
}

// writeError writes a coded error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps service errors onto HTTP responses. Domain errors
// carry their own code and map to 4xx; anything unrecognised is a 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, domainErrStatus(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	var variantNotFound *model.VariantNotFoundError
	if errors.As(err, &variantNotFound) {
		writeError(w, http.StatusNotFound, model.ErrCodeVariantNotFound, variantNotFound.Error(), logger)
		return
	}

	var variantInactive *model.VariantInactiveError
	if errors.As(err, &variantInactive) {
		writeError(w, http.StatusBadRequest, model.ErrCodeVariantInactive, variantInactive.Error(), logger)
		return
	}

	var insufficientStock *model.InsufficientStockError
	if errors.As(err, &insufficientStock) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInsufficientStock, insufficientStock.Error(), logger)
		return
	}

	var duplicateVariant *model.DuplicateVariantError
	if errors.As(err, &duplicateVariant) {
		writeError(w, http.StatusConflict, model.ErrCodeDuplicateVariant, duplicateVariant.Error(), logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

func domainErrStatus(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// pathID parses the named chi URL parameter as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
