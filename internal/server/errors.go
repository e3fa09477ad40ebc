package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	kerrors "github.com/PolarWolf314/securehide/internal/errors"
	"github.com/PolarWolf314/securehide/internal/workflows"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error        string `json:"error"`
	Detail       string `json:"detail"`
	CapacityBits *int   `json:"capacity_bits,omitempty"`
	RequiredBits *int   `json:"required_bits,omitempty"`
}

// statusClientClosedRequest is reported when the client went away before a
// response was ready. It has no net/http constant.
const statusClientClosedRequest = 499

// classify maps err to an error kind and HTTP status.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled", statusClientClosedRequest
	case errors.Is(err, ErrBusy):
		return "busy", http.StatusServiceUnavailable
	case errors.Is(err, ErrTimeout):
		return "timeout", http.StatusGatewayTimeout
	}

	kind := workflows.ErrorKind(err)
	switch kind {
	case "invalid_input", "invalid_image":
		return kind, http.StatusBadRequest
	case "capacity_exceeded", "truncated_carrier", "malformed_envelope":
		return kind, http.StatusUnprocessableEntity
	case "authentication_failed":
		return kind, http.StatusUnauthorized
	default:
		return "internal", http.StatusInternalServerError
	}
}

// detail returns the client-facing message for err. Internal errors are not echoed.
func detail(kind string, err error) string {
	switch kind {
	case "internal":
		return "internal server error"
	case "authentication_failed":
		return kerrors.ErrAuthentication.Error()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as an errorResponse and returns the kind written.
func writeError(w http.ResponseWriter, err error) string {
	kind, status := classify(err)
	resp := errorResponse{Error: kind, Detail: detail(kind, err)}

	var capErr *kerrors.CapacityError
	if errors.As(err, &capErr) {
		resp.CapacityBits = &capErr.CapacityBits
		resp.RequiredBits = &capErr.RequiredBits
	}

	writeJSON(w, status, resp)
	return kind
}
