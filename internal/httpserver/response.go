package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"superchat/internal/apperror"
)

// Every endpoint answers with the same envelope:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": {"code": "...", "message": "..."}}
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type failureEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// pagination rides next to data on list responses.
type paginationBody struct {
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

type pagedEnvelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data"`
	Pagination paginationBody `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

func writePaged(w http.ResponseWriter, status int, data any, total int, hasMore bool) {
	writeJSON(w, status, pagedEnvelope{
		Success:    true,
		Data:       data,
		Pagination: paginationBody{Total: total, HasMore: hasMore},
	})
}

// writeError maps a service error to the failure envelope. Anything that is
// not a tagged *apperror.Error becomes a generic SERVER_ERROR with no
// internals leaked.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("code", appErr.Code).Msg("request failed")
		}
		writeJSON(w, appErr.Status, failureEnvelope{
			Success: false,
			Error:   errorBody{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	log.Error().Err(err).Msg("unhandled error")
	writeJSON(w, http.StatusInternalServerError, failureEnvelope{
		Success: false,
		Error:   errorBody{Code: "SERVER_ERROR", Message: "A temporary error occurred. Please try again later."},
	})
}
