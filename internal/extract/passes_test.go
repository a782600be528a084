package extract

import (
	"errors"
	"strings"
	"testing"
)

func doc(lines ...string) Document {
	return NewDocument(strings.Join(lines, "\n"))
}

func TestPlanimetryPass(t *testing.T) {
	p := NewPlanimetryPass(DefaultMarkers())
	rec, err := p.Scan(doc(
		`<span class="im-mainFeatures__label">locali</span>`,
		`2`,
		`<span class="im-mainFeatures__label">superficie</span>`,
		`<span>1.250</span>`,
	))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if *rec.RoomCount != 2 || *rec.AreaSqm != 1250 {
		t.Fatalf("got rooms=%d area=%d", *rec.RoomCount, *rec.AreaSqm)
	}
}

func TestPlanimetryPass_ValueMustFollowLabel(t *testing.T) {
	p := NewPlanimetryPass(DefaultMarkers())
	rec, err := p.Scan(doc(`4`, `<span class="im-mainFeatures__label">locali</span>`))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if rec.RoomCount != nil {
		t.Fatalf("label on last line must yield nothing, got %d", *rec.RoomCount)
	}
}

func TestPlanimetryPass_LargeRoomCount(t *testing.T) {
	rec, err := NewPlanimetryPass(DefaultMarkers()).Scan(doc(`<span class="im-mainFeatures__label">locali</span>`, `300`))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if rec.RoomCount == nil || *rec.RoomCount != 300 {
		t.Fatalf("rooms = %v", rec.RoomCount)
	}
}

func TestPlanimetryPass_BadValueFails(t *testing.T) {
	p := NewPlanimetryPass(DefaultMarkers())
	_, err := p.Scan(doc(`<span class="im-mainFeatures__label">superficie</span>`, `sessanta`))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want *ParseError, got %v", err)
	}
	if pe.Field != FieldAreaSqm || pe.Pass != "planimetry" || pe.Line != "sessanta" {
		t.Fatalf("unexpected error fields: %+v", pe)
	}
}

func TestStructuredDataPass(t *testing.T) {
	p := NewStructuredDataPass(DefaultMarkers())
	rec, err := p.Scan(doc(
		`<p>intro</p>`,
		`<script id="js-hydration">{"listing":{"properties":[{"location":{"address":"Via Roma","microzone":{"name":"Centro"}}}]}}</script>`,
	))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if rec.Street != nil {
		t.Fatalf("street needs both address and number, got %q", *rec.Street)
	}
	if rec.Zone == nil || *rec.Zone != "Centro" {
		t.Fatalf("zone = %v", rec.Zone)
	}
	if rec.City != nil {
		t.Fatalf("city = %q", *rec.City)
	}
}

func TestStructuredDataPass_BrokenIslandIsSoft(t *testing.T) {
	p := NewStructuredDataPass(DefaultMarkers())
	rec, err := p.Scan(doc(`<script id="js-hydration">{not json</script>`))
	if err != nil || !rec.IsEmpty() {
		t.Fatalf("got %+v, %v", rec, err)
	}
}

func TestPriceAggregationPass(t *testing.T) {
	p := NewPriceAggregationPass(DefaultMarkers())
	rec, _ := p.Scan(doc(
		`<dt>prezzo</dt>`,
		`<dd>`,
		`€ 1.000/mese`,
		`<dt>spese condominio</dt>`,
		`<dd>`,
		`€ n.d.`,
		`<dt>spese condominio</dt>`,
		`<dd>`,
		`€ 150/mese`,
		`<dt>prezzo</dt>`,
		`<dd>`,
		`trattativa riservata`,
	))
	if rec.MonthlyCost == nil || *rec.MonthlyCost != 1150 {
		t.Fatalf("cost = %v", rec.MonthlyCost)
	}
}

func TestPriceAggregationPass_Saturates(t *testing.T) {
	p := NewPriceAggregationPass(DefaultMarkers())
	rec, _ := p.Scan(doc(
		`>prezzo<`, ``, `€ 4.294.967.295`,
		`>prezzo<`, ``, `€ 10`,
	))
	if *rec.MonthlyCost != 4294967295 {
		t.Fatalf("cost = %d", *rec.MonthlyCost)
	}
}

func TestPriceAggregationPass_ZeroNeverSetsCost(t *testing.T) {
	p := NewPriceAggregationPass(DefaultMarkers())
	got, err := Apply(p, doc(`nothing here`), Record{})
	if err != nil || got.MonthlyCost != nil {
		t.Fatalf("got %v, %v", got.MonthlyCost, err)
	}
	prev := Record{MonthlyCost: ptr(uint32(900))}
	got, _ = Apply(p, doc(`nothing here`), prev)
	if *got.MonthlyCost != 900 {
		t.Fatalf("zero sum replaced cost: %d", *got.MonthlyCost)
	}
}

func TestLegacyScanPass(t *testing.T) {
	p := NewLegacyScanPass(DefaultMarkers())
	rec, err := p.Scan(doc(
		`<li>4 locali</li>`,
		`<li>5 locali</li>`,
		`<li>110 m²</li>`,
		`<span>1.300 €/mese</span>`,
		`latitude: '45.46',`,
		`longitude: 'nope',`,
		`<h4 class="header-map-list">Indirizzo</h4>`,
		`  Via Padova 10  `,
		`<h4 class="header-map-list">Zona</h4>`,
		`Loreto`,
		`<h4 class="header-map-list">Comune</h4>`,
		`Milano`,
	))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if *rec.RoomCount != 4 || *rec.AreaSqm != 110 || *rec.MonthlyCost != 1300 {
		t.Fatalf("rooms=%d area=%d cost=%d", *rec.RoomCount, *rec.AreaSqm, *rec.MonthlyCost)
	}
	if *rec.Latitude != 45.46 || rec.Longitude != nil {
		t.Fatalf("lat=%v lng=%v", rec.Latitude, rec.Longitude)
	}
	if *rec.Street != "Via Padova 10" || *rec.Zone != "Loreto" || *rec.City != "Milano" {
		t.Fatalf("street=%q zone=%q city=%q", *rec.Street, *rec.Zone, *rec.City)
	}
}

func TestLegacyScanPass_MapListPositions(t *testing.T) {
	p := NewLegacyScanPass(DefaultMarkers())

	rec, _ := p.Scan(doc(`header-map-list`, `Solo`))
	if *rec.Street != "Solo" || *rec.City != "Solo" || rec.Zone != nil {
		t.Fatalf("one entry: %+v", rec)
	}

	rec, _ = p.Scan(doc(`header-map-list`, `Primo`, `header-map-list`, `Secondo`))
	if *rec.Street != "Primo" || *rec.Zone != "Secondo" || *rec.City != "Secondo" {
		t.Fatalf("two entries: street=%q zone=%q city=%q", *rec.Street, *rec.Zone, *rec.City)
	}

	rec, _ = p.Scan(doc(`header-map-list`, `A`, `header-map-list`, `B`, `header-map-list`, `C`, `header-map-list`, `D`))
	if *rec.Street != "A" || *rec.Zone != "B" || *rec.City != "D" {
		t.Fatalf("four entries: street=%q zone=%q city=%q", *rec.Street, *rec.Zone, *rec.City)
	}
}

func TestLegacyScanPass_FillsOnly(t *testing.T) {
	p := NewLegacyScanPass(DefaultMarkers())
	prev := Record{RoomCount: ptr(uint32(2)), City: ptr("Milano")}
	got, err := Apply(p, doc(`<li>3 locali</li>`, `header-map-list`, `Roma`), prev)
	if err != nil {
		t.Fatal(err)
	}
	if *got.RoomCount != 2 || *got.City != "Milano" || *got.Street != "Roma" {
		t.Fatalf("got %+v", got)
	}
}
