package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"bkds/internal/insight"
	"bkds/internal/loader"
	"bkds/internal/preview"
	"bkds/internal/speech"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("json encode error")
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var ioErr *loader.IOError
	switch {
	case errors.Is(err, loader.ErrUnsafeParam),
		errors.Is(err, preview.ErrInvalidURL),
		errors.Is(err, speech.ErrEmptyText),
		errors.Is(err, speech.ErrEmptySearch),
		errors.Is(err, speech.ErrEmptySearchID):
		return http.StatusBadRequest
	case errors.Is(err, preview.ErrHostNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, insight.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ioErr) && ioErr.NotExist():
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes a JSON error. Internal details are only
// exposed for client errors.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := s.log.WithError(err).WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
	})

	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		log.Warn("Request rejected")
		if status != http.StatusNotFound {
			msg = err.Error()
		}
	} else {
		log.Error("Request failed")
	}
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// degradable reports whether a feed error should yield an empty feed
// instead of an error response.
func degradable(err error) bool {
	var ioErr *loader.IOError
	var parseErr *loader.ParseError
	return errors.As(err, &ioErr) || errors.As(err, &parseErr)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
