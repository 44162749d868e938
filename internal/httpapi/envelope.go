// Package httpapi is the API Adapter: it translates forest.Store
// operations into the fixed JSON envelope, dispatches requests through
// a fox.Router, and enforces the per-route rate limits.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tigerwill90/fox"

	"github.com/nicolagi/epictree/internal/forest"
)

// meta carries the status duplicated into the body, per the fixed
// response envelope every endpoint uses.
type meta struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// envelope is the one response shape every endpoint returns.
type envelope struct {
	Meta     meta        `json:"meta"`
	Response interface{} `json:"response"`
}

func writeJSON(c *fox.Context, code int, message string, response interface{}) {
	c.SetHeader("Content-Type", "application/json")
	c.Writer().WriteHeader(code)
	_ = json.NewEncoder(c.Writer()).Encode(envelope{
		Meta:     meta{Code: code, Message: message},
		Response: response,
	})
}

func writeOK(c *fox.Context, response interface{}) {
	writeJSON(c, http.StatusOK, "ok", response)
}

// writeErr maps a forest sentinel error (or a handler-local
// httpapi error) to its documented status code and writes the
// envelope. Internal detail is logged but never returned once the
// server runs in production mode.
func writeErr(c *fox.Context, logger *log.Logger, productionMode bool, err error) {
	code, message := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.WithError(err).Error("internal invariant violation")
		if productionMode {
			message = "internal error"
		} else {
			message = err.Error()
		}
	}
	writeJSON(c, code, message, nil)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, forest.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, forest.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, forest.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, forest.ErrNotImplemented):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, forest.ErrInvariant):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

var errBadRequest = errors.New("bad request")
