package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Simplici0/marginguard/internal/ads"
	"github.com/Simplici0/marginguard/internal/advisory"
	"github.com/Simplici0/marginguard/internal/logger"
	"github.com/Simplici0/marginguard/internal/logistics"
	"github.com/Simplici0/marginguard/internal/negotiation"
	"github.com/Simplici0/marginguard/internal/pricing"
	"github.com/Simplici0/marginguard/internal/repricing"
	"github.com/Simplici0/marginguard/internal/store"
)

const maxBatchItems = 1000

// marginRequest checks price (default product.price) against min_margin_pct
// (default min_allowed_margin_pct).
type marginRequest struct {
	SKU          string             `json:"sku"`
	Product      pricing.Financials `json:"product"`
	Price        *float64           `json:"price"`
	MinMarginPct *float64           `json:"min_margin_pct"`
}

type marginResponse struct {
	SKU     string          `json:"sku,omitempty"`
	Price   float64         `json:"price"`
	Margin  float64         `json:"margin"`
	Verdict pricing.Verdict `json:"verdict"`
	Floor   pricing.Floor   `json:"floor"`
}

func (s *server) handleMargin(w http.ResponseWriter, r *http.Request) {
	var req marginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if err := req.Product.Validate(); err != nil {
		writeFailure(w, err)
		return
	}

	price := req.Product.CurrentPrice
	if req.Price != nil {
		price = *req.Price
	}
	target := s.policy.Pricing.MinAllowedMarginPct
	if req.MinMarginPct != nil {
		target = *req.MinMarginPct
	}
	if target < 0 || target >= 1 {
		writeFailure(w, fmt.Errorf("%w: min_margin_pct must be in [0,1)", pricing.ErrInvalidInput))
		return
	}

	resp := marginResponse{
		SKU:     req.SKU,
		Price:   price,
		Margin:  pricing.MarginOf(price, req.Product),
		Verdict: pricing.Enforce(price, req.Product, target),
		Floor:   pricing.SolveFloor(req.Product.Costs, req.Product.MarketplaceFeePct, target),
	}
	if resp.Floor.Unreachable {
		warnUnreachable(req.SKU, req.Product.MarketplaceFeePct, target)
	}
	s.record(r.Context(), store.KindMargin, req.SKU, req, resp)
	writeJSON(w, http.StatusOK, resp)
}

// advisedInput is the audit record of a request that carried model output,
// stored next to what the parser made of it.
type advisedInput struct {
	Request  any                 `json:"request"`
	Advisory advisory.Suggestion `json:"advisory"`
}

func warnUnreachable(sku string, feePct, target float64) {
	logger.Warnf("sku %q cannot reach target margin %.4f under fee %.4f, using cost floor", sku, target, feePct)
}

// repriceRequest serves /reprice and /reprice/execute. Advisory is raw model
// output and only read by the latter.
type repriceRequest struct {
	SKU         string             `json:"sku"`
	Product     pricing.Financials `json:"product"`
	Competitors []repricing.Offer  `json:"competitors"`
	Policy      json.RawMessage    `json:"policy,omitempty"`
	Advisory    string             `json:"advisory,omitempty"`
}

func (s *server) decodeReprice(w http.ResponseWriter, r *http.Request) (repriceRequest, pricing.Policy, bool) {
	var req repriceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err)
		return req, pricing.Policy{}, false
	}
	if err := req.Product.Validate(); err != nil {
		writeFailure(w, err)
		return req, pricing.Policy{}, false
	}
	policy, err := s.pricingPolicy(req.Policy)
	if err != nil {
		writeFailure(w, err)
		return req, pricing.Policy{}, false
	}
	return req, policy, true
}

func (s *server) handleReprice(w http.ResponseWriter, r *http.Request) {
	req, policy, ok := s.decodeReprice(w, r)
	if !ok {
		return
	}

	decision := s.engine.Reprice(req.Product, req.Competitors, policy)
	s.record(r.Context(), store.KindReprice, req.SKU, req, decision)
	writeJSON(w, http.StatusOK, decision)
}

func (s *server) handleRepriceExecute(w http.ResponseWriter, r *http.Request) {
	req, policy, ok := s.decodeReprice(w, r)
	if !ok {
		return
	}

	suggestion := advisory.None()
	if req.Advisory != "" {
		suggestion = advisory.ParseRepricing(req.Advisory)
	}

	ex := s.engine.Execute(req.Product, req.Competitors, policy, suggestion)
	s.record(r.Context(), store.KindExecute, req.SKU, advisedInput{Request: req, Advisory: suggestion}, ex)
	writeJSON(w, http.StatusOK, ex)
}

type batchRequest struct {
	Items  []repricing.Item `json:"items"`
	Policy json.RawMessage  `json:"policy,omitempty"`
}

func (s *server) handleRepriceBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if len(req.Items) > maxBatchItems {
		writeFailure(w, fmt.Errorf("%w: at most %d items per batch", pricing.ErrInvalidInput, maxBatchItems))
		return
	}
	for i, item := range req.Items {
		if err := item.Financials.Validate(); err != nil {
			writeFailure(w, fmt.Errorf("items[%d]: %w", i, err))
			return
		}
	}
	policy, err := s.pricingPolicy(req.Policy)
	if err != nil {
		writeFailure(w, err)
		return
	}

	results, err := s.engine.RepriceBatch(r.Context(), req.Items, policy)
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := map[string]any{"results": results}
	s.record(r.Context(), store.KindBatch, "", req, resp)
	writeJSON(w, http.StatusOK, resp)
}

type negotiateRequest struct {
	SKU         string             `json:"sku"`
	Product     pricing.Financials `json:"product"`
	ClientOffer float64            `json:"client_offer"`
	Policy      json.RawMessage    `json:"policy,omitempty"`
	Advisory    string             `json:"advisory,omitempty"`
}

func (s *server) handleNegotiate(w http.ResponseWriter, r *http.Request) {
	var req negotiateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if err := req.Product.Validate(); err != nil {
		writeFailure(w, err)
		return
	}
	if req.ClientOffer <= 0 {
		writeFailure(w, fmt.Errorf("%w: client_offer must be > 0", pricing.ErrInvalidInput))
		return
	}
	policy, err := s.pricingPolicy(req.Policy)
	if err != nil {
		writeFailure(w, err)
		return
	}

	suggestion := advisory.None()
	if req.Advisory != "" {
		suggestion = advisory.ParseNegotiation(req.Advisory)
	}

	outcome := negotiation.Negotiate(req.ClientOffer, req.Product, suggestion, policy)
	if outcome.FloorUnreachable {
		warnUnreachable(req.SKU, req.Product.MarketplaceFeePct, policy.NegotiationMarginPct)
	}
	s.record(r.Context(), store.KindNegotiate, req.SKU, advisedInput{Request: req, Advisory: suggestion}, outcome)
	writeJSON(w, http.StatusOK, outcome)
}

type carrierRequest struct {
	WeightKg float64             `json:"weight_kg"`
	Carriers []logistics.Carrier `json:"carriers,omitempty"`
	Weights  *logistics.Weights  `json:"weights,omitempty"`
	Advisory string              `json:"advisory,omitempty"`
}

func (s *server) handleCarrierSelect(w http.ResponseWriter, r *http.Request) {
	var req carrierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if req.WeightKg < 0 {
		writeFailure(w, fmt.Errorf("%w: weight_kg must be >= 0", pricing.ErrInvalidInput))
		return
	}

	carriers := req.Carriers
	if len(carriers) == 0 {
		var err error
		carriers, err = s.catalogue(r)
		if err != nil {
			writeFailure(w, err)
			return
		}
	}
	weights := s.weights
	if req.Weights != nil {
		weights = *req.Weights
	}

	suggestion := advisory.None()
	if req.Advisory != "" {
		suggestion = advisory.ParseCarrier(req.Advisory)
	}

	pick, err := logistics.Choose(req.WeightKg, carriers, weights, suggestion)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.record(r.Context(), store.KindCarrier, "", advisedInput{Request: req, Advisory: suggestion}, pick)
	writeJSON(w, http.StatusOK, pick)
}

// catalogue returns the stored active carriers, or the built-in table when
// no store is attached.
func (s *server) catalogue(r *http.Request) ([]logistics.Carrier, error) {
	if s.store == nil {
		return logistics.DefaultCarriers(), nil
	}
	return s.store.ActiveCarriers(r.Context())
}

type adsRequest struct {
	SKU            string             `json:"sku"`
	Product        pricing.Financials `json:"product"`
	ConversionRate float64            `json:"conversion_rate"`
}

type adsResponse struct {
	SKU        string         `json:"sku,omitempty"`
	Adjustment ads.Adjustment `json:"adjustment"`
	Flag       ads.SKUFlag    `json:"flag"`
}

func (s *server) handleAdsAdjust(w http.ResponseWriter, r *http.Request) {
	var req adsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	if err := req.Product.Validate(); err != nil {
		writeFailure(w, err)
		return
	}

	adj := ads.AdjustProduct(req.Product, req.ConversionRate, s.policy.Ads)
	resp := adsResponse{
		SKU:        req.SKU,
		Adjustment: adj,
		Flag:       ads.Flag(req.SKU, adj.Margin, s.policy.Ads.FlagMarginPct),
	}
	s.record(r.Context(), store.KindAds, req.SKU, req, resp)
	writeJSON(w, http.StatusOK, resp)
}
