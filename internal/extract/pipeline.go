package extract

// Observer is called after each pass has been folded into the record.
type Observer func(pass string, rec Record)

// Pipeline runs a fixed sequence of passes over one document and folds each
// pass's candidates into a record it owns. A Pipeline holds no per-run state
// and may be used from many goroutines at once.
type Pipeline struct {
	passes []Pass
}

// NewPipeline returns a pipeline running passes in the given order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: append([]Pass(nil), passes...)}
}

// NewDefaultPipeline returns the listing pipeline: planimetry, structured
// data, price aggregation, then the legacy fallback scan.
func NewDefaultPipeline(m Markers) *Pipeline {
	return NewPipeline(
		NewPlanimetryPass(m),
		NewStructuredDataPass(m),
		NewPriceAggregationPass(m),
		NewLegacyScanPass(m),
	)
}

// Passes returns the pass names in run order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i, ps := range p.passes {
		names[i] = ps.Name()
	}
	return names
}

// Apply runs one pass against doc and folds its candidates into rec.
func Apply(pass Pass, doc Document, rec Record) (Record, error) {
	cand, err := pass.Scan(doc)
	if err != nil {
		return rec, err
	}
	return Merge(rec, cand, pass.Policy()), nil
}

// Run extracts a record from body. A page matching no marker yields an empty
// record and no error. The only error is a *ParseError from a pass that
// refuses to continue.
func (p *Pipeline) Run(body string, observers ...Observer) (Record, error) {
	doc := NewDocument(body)
	var rec Record
	for _, pass := range p.passes {
		var err error
		if rec, err = Apply(pass, doc, rec); err != nil {
			return Record{}, err
		}
		for _, obs := range observers {
			obs(pass.Name(), rec)
		}
	}
	return rec, nil
}
