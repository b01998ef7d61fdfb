package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/risor-io/phpsandbox"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/metrics"
	"github.com/rs/zerolog"
)

const maxRequestBytes = 1 << 20

type requestIDKey struct{}

// server exposes a Sanitizer over HTTP. The sanitizer is swapped as a whole
// when the policy changes, so in-flight requests finish under the policy
// they started with.
type server struct {
	sanitizer atomic.Pointer[phpsandbox.Sanitizer]
	metrics   *metrics.Collector
	logger    zerolog.Logger
}

type sanitizeRequest struct {
	Code     string `json:"code"`
	Filename string `json:"filename,omitempty"`
}

type sanitizeResponse struct {
	RequestID string         `json:"requestId"`
	OK        bool           `json:"ok"`
	Code      string         `json:"code,omitempty"`
	Error     *responseError `json:"error,omitempty"`
}

type responseError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func newServer(s *phpsandbox.Sanitizer, c *metrics.Collector, logger zerolog.Logger) *server {
	srv := &server{metrics: c, logger: logger}
	srv.sanitizer.Store(s)
	return srv
}

// setSanitizer replaces the sanitizer used by subsequent requests.
func (s *server) setSanitizer(sanitizer *phpsandbox.Sanitizer) {
	s.sanitizer.Store(sanitizer)
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sanitize", s.handle(true))
		r.Post("/check", s.handle(false))
	})
	return r
}

func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			if u, err := uuid.NewV4(); err == nil {
				id = u.String()
			}
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// handle serves /v1/sanitize and /v1/check. Only the former returns the
// rewritten code.
func (s *server) handle(withCode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := requestIDFrom(r.Context())
		log := s.logger.With().Str("request_id", id).Str("path", r.URL.Path).Logger()

		var req sanitizeRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			log.Info().Err(err).Msg("bad request")
			writeResponse(w, http.StatusBadRequest, sanitizeResponse{
				RequestID: id,
				Error:     &responseError{Kind: "bad request", Message: err.Error()},
			})
			return
		}

		sanitizer := s.sanitizer.Load()
		out, err := sanitizer.Sanitize(r.Context(), req.Code)
		resp := sanitizeResponse{RequestID: id, OK: err == nil}
		status := http.StatusOK
		switch {
		case err == nil:
			if withCode {
				resp.Code = out
			}
		case errz.IsParseFailure(err):
			status = http.StatusUnprocessableEntity
			resp.Error = parseError(err)
		case isViolation(err):
			status = http.StatusUnprocessableEntity
			resp.Error = violationError(err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusServiceUnavailable
			resp.Error = &responseError{Kind: "cancelled", Message: err.Error()}
		default:
			status = http.StatusInternalServerError
			resp.Error = &responseError{Kind: "internal", Message: err.Error()}
		}
		log.Debug().
			Int("status", status).
			Str("result", metrics.Result(err)).
			Dur("elapsed", time.Since(start)).
			Msg("request")
		writeResponse(w, status, resp)
	}
}

func isViolation(err error) bool {
	_, ok := errz.AsViolation(err)
	return ok
}

func violationError(err error) *responseError {
	v, _ := errz.AsViolation(err)
	re := &responseError{
		Kind:    v.Kind.String(),
		Message: v.Message,
		Hint:    v.Hint,
	}
	if v.Position.IsValid() {
		re.Line = v.Position.LineNumber()
		re.Column = v.Position.ColumnNumber()
	}
	return re
}

func parseError(err error) *responseError {
	var pf *errz.ParseFailure
	errors.As(err, &pf)
	re := &responseError{Kind: "parse error", Message: pf.Message}
	if fe := pf.ToFormatted(); fe != nil {
		re.Line = fe.Line
		re.Column = fe.Column
	}
	return re
}

func writeResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
