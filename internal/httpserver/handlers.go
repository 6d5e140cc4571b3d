package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	authdomain "maximus/auth/internal/domain/auth"

	"go.uber.org/zap"
)

const (
	userHeader = "x-maximus-user"

	msgValidated     = "Validated"
	msgExpiredToken  = "Expired token. Please renew."
	msgInvalidToken  = "Could not validate token."
	msgMissingToken  = "Could not find token."
	msgMissingUserID = "Could not find a user id"
	msgInvalidUserID = "Could not parse user id"
	msgInternal      = "internal error"

	maxBodyBytes = 1 << 20
)

var routeMethods = map[string]string{
	"/":          http.MethodPost,
	"/getToken/": http.MethodPost,
	"/health":    http.MethodGet,
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/", s.handleValidate)
	s.router.Post("/getToken/", s.handleIssue)

	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMethodNotAllowed(w, routeMethods[r.URL.Path])
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	token := s.bodyParam(w, r, "token")

	userID, err := s.authService.Validate(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrExpiredToken):
			writeError(w, http.StatusForbidden, msgExpiredToken)
		case errors.Is(err, authdomain.ErrMalformedToken):
			writeError(w, http.StatusForbidden, msgInvalidToken)
		case errors.Is(err, authdomain.ErrMissingToken):
			writeError(w, http.StatusForbidden, msgMissingToken)
		default:
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	w.Header().Set(userHeader, strconv.FormatInt(userID, 10))
	writeJSON(w, http.StatusOK, statusResponse{Status: msgValidated})
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	rawUserID := s.bodyParam(w, r, "user_id")

	token, err := s.authService.Issue(r.Context(), rawUserID)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrMissingUserID):
			writeError(w, http.StatusForbidden, msgMissingUserID)
		case errors.Is(err, authdomain.ErrInvalidUserID):
			writeError(w, http.StatusForbidden, msgInvalidUserID)
		default:
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// bodyParam reads a single field from a form or JSON request body.
// Absent fields and unreadable bodies both yield an empty string.
func (s *Server) bodyParam(w http.ResponseWriter, r *http.Request, key string) string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var payload map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.logger.Warn("could not decode JSON body", zap.Error(err))
			return ""
		}
		return jsonScalar(payload[key])
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			s.logger.Warn("could not parse multipart body", zap.Error(err))
			return ""
		}
	default:
		if err := r.ParseForm(); err != nil {
			s.logger.Warn("could not parse form body", zap.Error(err))
			return ""
		}
	}
	return r.PostFormValue(key)
}

// jsonScalar returns strings unquoted and other scalars as their literal text.
func jsonScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}
