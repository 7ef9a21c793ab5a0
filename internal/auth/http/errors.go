package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const (
	detailInternal    = "Internal server error"
	detailInvalidBody = "Invalid request body"

	maxBodyBytes = 1 << 20
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindUnauthenticated, service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound, service.KindUnsupportedGrantType:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"detail": ...}. Internal errors are logged and
// never leak their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, detailInternal)
		return
	}
	httpx.WriteDetail(w, statusFor(kind), service.DetailOf(err))
}

// decodeJSONBody reads a JSON object from r into v. Unknown fields are
// ignored.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if !errors.Is(err, io.EOF) {
			slogx.FromContext(r.Context()).Debug("invalid JSON body", "error", err)
		}
		httpx.WriteDetail(w, http.StatusBadRequest, detailInvalidBody)
		return false
	}
	return true
}
