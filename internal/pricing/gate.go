package pricing

// Verdict is the outcome of checking a candidate price against a minimum
// margin. When OK is false, SafePrice is at least the cost floor.
type Verdict struct {
	SafePrice float64 `json:"safe_price"`
	OK        bool    `json:"ok"`
	Margin    float64 `json:"margin"`
}

// Enforce validates candidatePrice against minAllowedMarginPct. An unsafe
// candidate is raised to the cost floor, never lowered.
func Enforce(candidatePrice float64, fin Financials, minAllowedMarginPct float64) Verdict {
	margin := MarginOf(candidatePrice, fin)
	ok := margin >= minAllowedMarginPct
	safePrice := candidatePrice
	if !ok {
		baseline := CostFloor(fin.UnitCost, minAllowedMarginPct)
		safePrice = max(baseline, candidatePrice)
	}
	return Verdict{SafePrice: Round(safePrice), OK: ok, Margin: margin}
}
