package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/Simplici0/marginguard/internal/config"
	"github.com/Simplici0/marginguard/internal/logger"
	"github.com/Simplici0/marginguard/internal/logistics"
	"github.com/Simplici0/marginguard/internal/pricing"
	"github.com/Simplici0/marginguard/internal/repricing"
	"github.com/Simplici0/marginguard/internal/store"
)

const maxBodyBytes = 1 << 20

type server struct {
	store   *store.Store
	engine  *repricing.Engine
	policy  config.PolicyFile
	weights logistics.Weights
	apiKey  string
	limiter *rate.Limiter
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.requireAPIKey)

		r.Post("/margin", s.handleMargin)
		r.Post("/reprice", s.handleReprice)
		r.Post("/reprice/execute", s.handleRepriceExecute)
		r.Post("/reprice/batch", s.handleRepriceBatch)
		r.Post("/negotiate", s.handleNegotiate)
		r.Post("/carriers/select", s.handleCarrierSelect)
		r.Post("/ads/adjust", s.handleAdsAdjust)
		r.Get("/decisions", s.handleDecisionsList)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleDecisionsList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "decision log is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.store.List(r.Context(), r.URL.Query().Get("kind"), limit)
	if err != nil {
		logger.Errorf("list decisions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list decisions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": entries})
}

// pricingPolicy overlays a per-request policy document on the configured one.
func (s *server) pricingPolicy(raw json.RawMessage) (pricing.Policy, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return s.policy.Pricing, nil
	}
	return pricing.DecodePolicy(s.policy.Pricing, raw)
}

// record appends to the audit log. Failures are logged, never surfaced.
func (s *server) record(ctx context.Context, kind, sku string, input, output any) {
	if s.store == nil {
		return
	}
	if _, err := s.store.Record(ctx, kind, sku, input, output); err != nil {
		logger.Warnf("record %s decision for %q: %v", kind, sku, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode request body: %v", pricing.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warnf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps validation errors to 400 and everything else to 500.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput), errors.Is(err, logistics.ErrNoCarriers):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Errorf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
