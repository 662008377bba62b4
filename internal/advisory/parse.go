package advisory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// Negotiation decisions an advisor may return.
const (
	DecisionAccept  = "ACCEPT"
	DecisionReject  = "REJECT"
	DecisionCounter = "COUNTER_OFFER"
)

const (
	negotiationSchema = `{
		"type": "object",
		"properties": {
			"decision": {"type": "string"},
			"proposed_price": {"type": ["number", "string", "null"]},
			"reason": {"type": ["string", "null"]},
			"message": {"type": ["string", "null"]}
		},
		"anyOf": [{"required": ["decision"]}, {"required": ["proposed_price"]}]
	}`
	repricingSchema = `{
		"type": "object",
		"properties": {
			"new_price": {"type": ["number", "string"]},
			"reason": {"type": ["string", "null"]}
		},
		"required": ["new_price"]
	}`
	carrierSchema = `{
		"type": "object",
		"properties": {
			"carrier": {"type": "string", "minLength": 1},
			"cost": {"type": ["number", "string", "null"]},
			"lead_time": {"type": ["number", "string", "null"]},
			"reason": {"type": ["string", "null"]}
		},
		"required": ["carrier"]
	}`
)

var (
	negotiationValidator = jsonschema.MustCompileString("negotiation.json", negotiationSchema)
	repricingValidator   = jsonschema.MustCompileString("repricing.json", repricingSchema)
	carrierValidator     = jsonschema.MustCompileString("carrier.json", carrierSchema)
)

// ParseNegotiation reads a negotiation suggestion from raw model output.
// Anything unusable becomes a failed suggestion.
func ParseNegotiation(raw string) Suggestion {
	doc, err := validated(raw, negotiationValidator)
	if err != nil {
		return Failed(err.Error())
	}
	decision := normalizeDecision(doc.Get("decision").String())
	if decision != "" && !knownDecision(decision) {
		return Failed(fmt.Sprintf("unknown decision %q", decision))
	}
	price, err := optionalNumber(doc, "proposed_price")
	if err != nil {
		return Failed(err.Error())
	}
	return Some(Payload{
		Decision:      decision,
		ProposedPrice: price,
		Reason:        doc.Get("reason").String(),
		Message:       doc.Get("message").String(),
	})
}

// ParseRepricing reads a repricing suggestion carrying new_price.
func ParseRepricing(raw string) Suggestion {
	doc, err := validated(raw, repricingValidator)
	if err != nil {
		return Failed(err.Error())
	}
	price, err := optionalNumber(doc, "new_price")
	if err != nil {
		return Failed(err.Error())
	}
	return Some(Payload{NewPrice: price, Reason: doc.Get("reason").String()})
}

// ParseCarrier reads a carrier pick.
func ParseCarrier(raw string) Suggestion {
	doc, err := validated(raw, carrierValidator)
	if err != nil {
		return Failed(err.Error())
	}
	cost, err := optionalNumber(doc, "cost")
	if err != nil {
		return Failed(err.Error())
	}
	lead, err := optionalNumber(doc, "lead_time")
	if err != nil {
		return Failed(err.Error())
	}
	return Some(Payload{
		Carrier:  strings.TrimSpace(doc.Get("carrier").String()),
		Cost:     cost,
		LeadTime: lead,
		Reason:   doc.Get("reason").String(),
	})
}

func validated(raw string, schema *jsonschema.Schema) (gjson.Result, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return gjson.Result{}, fmt.Errorf("no json object in advisory output")
	}
	if !gjson.Valid(obj) {
		return gjson.Result{}, fmt.Errorf("advisory output is not valid json")
	}
	dec := json.NewDecoder(strings.NewReader(obj))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return gjson.Result{}, fmt.Errorf("decode advisory output: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return gjson.Result{}, fmt.Errorf("advisory output failed schema: %w", err)
	}
	return gjson.Parse(obj), nil
}

func optionalNumber(doc gjson.Result, path string) (*float64, error) {
	field := doc.Get(path)
	switch field.Type {
	case gjson.Null:
		return nil, nil
	case gjson.Number:
		v := field.Float()
		return &v, nil
	case gjson.String:
		s := strings.TrimSpace(field.String())
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("%s is not numeric: %q", path, s)
		}
		return &v, nil
	default:
		return nil, fmt.Errorf("%s has unsupported type %s", path, field.Type)
	}
}

func normalizeDecision(raw string) string {
	d := strings.ToUpper(strings.TrimSpace(raw))
	d = strings.NewReplacer(" ", "_", "-", "_").Replace(d)
	if d == "COUNTER" || d == "COUNTEROFFER" {
		return DecisionCounter
	}
	return d
}

func knownDecision(d string) bool {
	switch d {
	case DecisionAccept, DecisionReject, DecisionCounter:
		return true
	}
	return false
}
