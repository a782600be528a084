package extract

import "math"

// PriceAggregationPass sums every price and condominium-fee amount on the
// page. A kept triple is a label line, any line, then an amount line that
// carries a currency symbol. Amounts that do not parse are skipped.
type PriceAggregationPass struct {
	Labels   []string
	Currency []string
	Units    []string
}

// NewPriceAggregationPass builds the pass from m.
func NewPriceAggregationPass(m Markers) PriceAggregationPass {
	return PriceAggregationPass{Labels: m.PriceLabels, Currency: m.Currency, Units: m.PriceUnits}
}

func (PriceAggregationPass) Name() string { return "price-aggregation" }

// Policy only lets a positive sum through, so a page with no price triples
// never clears or zeroes the cost.
func (PriceAggregationPass) Policy() Policy {
	return Policy{FieldMonthlyCost: OverwriteIfPositive}
}

func (p PriceAggregationPass) Scan(doc Document) (Record, error) {
	strip := make([]string, 0, len(p.Currency)+len(p.Units))
	strip = append(strip, p.Currency...)
	strip = append(strip, p.Units...)

	var sum uint64
	for w := range doc.Windows(3) {
		if !containsAny(w[0], p.Labels) || !containsAny(w[2], p.Currency) {
			continue
		}
		if n, ok := ParseUInt(w[2], strip...); ok {
			sum += uint64(n)
		}
	}
	total := uint32(min(sum, math.MaxUint32))
	return Record{MonthlyCost: &total}, nil
}
