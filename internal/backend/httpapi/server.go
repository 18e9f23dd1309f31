// Package httpapi exposes case records and product summaries over JSON/HTTP
// and provides the matching client.
//
// Routes:
//
//	GET /health
//	GET /api/v1/cases/{caseID}                         -> {"id": ..., "contactId": ... | null}
//	GET /api/v1/contacts/{contactID}/product-summary   -> ProductSummary, or 204 when none
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rshade/productsummary/internal/logging"
	"github.com/rshade/productsummary/internal/summary"
)

const (
	casesPath     = "/api/v1/cases"
	contactsPath  = "/api/v1/contacts"
	summarySuffix = "/product-summary"
	healthPath    = "/health"

	defaultRequestTimeout = 30 * time.Second
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// Handler serves the API from the given collaborators.
type Handler struct {
	cases    summary.CaseRecordSource
	products summary.ProductService
	logger   zerolog.Logger
}

// NewHandler returns a Handler.
func NewHandler(cases summary.CaseRecordSource, products summary.ProductService, logger zerolog.Logger) *Handler {
	return &Handler{
		cases:    cases,
		products: products,
		logger:   logging.ComponentLogger(logger, "httpapi"),
	}
}

// NewRouter builds the chi router for h.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultRequestTimeout))
	r.Use(h.traceMiddleware)

	r.Get(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(casesPath, func(r chi.Router) {
		r.Get("/{caseID}", h.handleGetCase)
	})
	r.Route(contactsPath, func(r chi.Router) {
		r.Get("/{contactID}"+summarySuffix, h.handleGetProductSummary)
	})

	return r
}

// traceMiddleware puts a trace ID and logger into the request context and
// logs each request once it completes.
func (h *Handler) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(logging.TraceIDMetadataKey)
		if traceID == "" {
			traceID = logging.NewTraceID()
		}
		ctx := logging.ContextWithTraceID(r.Context(), traceID)
		ctx = h.logger.WithContext(ctx)
		w.Header().Set(logging.TraceIDMetadataKey, traceID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		h.logger.Info().
			Ctx(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func (h *Handler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	record, err := h.cases.FetchCase(r.Context(), caseID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	if record == nil {
		h.writeError(r.Context(), w, summary.ErrCaseNotFound)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleGetProductSummary(w http.ResponseWriter, r *http.Request) {
	contactID := summary.ContactID(chi.URLParam(r, "contactID"))
	result, err := h.products.FetchProductSummary(r.Context(), contactID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeError maps sentinel errors to HTTP status codes.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, summary.ErrCaseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, summary.ErrEmptyCaseID), errors.Is(err, summary.ErrEmptyContactID):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	h.logger.Warn().Ctx(ctx).Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
