// Package advisory models the optional, already-resolved output of an
// external decision provider. A suggestion is either absent, available or
// failed; callers branch on Status rather than on errors.
package advisory

import "encoding/json"

// Status tells whether a suggestion is absent, available or failed.
type Status int

const (
	StatusAbsent Status = iota
	StatusAvailable
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusFailed:
		return "failed"
	default:
		return "absent"
	}
}

// Payload is the structured content of an available suggestion. Which fields
// are set depends on the decision it advises on.
type Payload struct {
	Decision      string   `json:"decision,omitempty"`
	ProposedPrice *float64 `json:"proposed_price,omitempty"`
	NewPrice      *float64 `json:"new_price,omitempty"`
	Carrier       string   `json:"carrier,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	LeadTime      *float64 `json:"lead_time,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// Suggestion is the provider output handed to a decision function.
type Suggestion struct {
	status  Status
	payload Payload
	failure string
}

func None() Suggestion { return Suggestion{} }

func Some(p Payload) Suggestion { return Suggestion{status: StatusAvailable, payload: p} }

func Failed(reason string) Suggestion {
	return Suggestion{status: StatusFailed, failure: reason}
}

func (s Suggestion) Status() Status { return s.status }

// Payload returns the suggestion content; ok is false unless available.
func (s Suggestion) Payload() (Payload, bool) {
	if s.status != StatusAvailable {
		return Payload{}, false
	}
	return s.payload, true
}

// FailureReason is the provider error for a failed suggestion.
func (s Suggestion) FailureReason() string { return s.failure }

type wireSuggestion struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Payload
}

// MarshalJSON writes {"status": ..., "error": ..., payload fields} for the
// decision log.
func (s Suggestion) MarshalJSON() ([]byte, error) {
	w := wireSuggestion{Status: s.status.String(), Error: s.failure}
	if s.status == StatusAvailable {
		w.Payload = s.payload
	}
	return json.Marshal(w)
}
