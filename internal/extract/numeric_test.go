package extract

import "testing"

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"<li>3 locali</li>", "3 locali"},
		{`<span class="v">1.200</span> <!-- note -->`, "1.200 "},
		{"a &amp; b", "a & b"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripMarkup(c.in); got != c.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseUInt(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		strip []string
		want  uint32
		ok    bool
	}{
		{"bare", "42", nil, 42, true},
		{"padded", "  7 \t", nil, 7, true},
		{"thousands", "1.200", nil, 1200, true},
		{"markup", "<span>60</span>", nil, 60, true},
		{"currency", "€ 1.800/mese", []string{"€", "/mese"}, 1800, true},
		{"suffix", "<li>3 locali</li>", []string{" locali"}, 3, true},
		{"letters", "tre", nil, 0, false},
		{"negative", "-3", nil, 0, false},
		{"empty", "", nil, 0, false},
		{"overflow", "4294967296", nil, 0, false},
		{"max", "4.294.967.295", nil, 4294967295, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ParseUInt(c.in, c.strip...)
			if ok != c.ok || got != c.want {
				t.Fatalf("ParseUInt(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
			}
		})
	}
}

func TestParseUIntStrict_ReportsError(t *testing.T) {
	if _, err := ParseUIntStrict("5+"); err == nil {
		t.Fatal("expected error for 5+")
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in    string
		strip []string
		want  float64
		ok    bool
	}{
		{"latitude: '45.4688239',", []string{"latitude: '", "',"}, 45.4688239, true},
		{"  9.1451057 ", nil, 9.1451057, true},
		{"-0.5", nil, -0.5, true},
		{"NaN", nil, 0, false},
		{"Inf", nil, 0, false},
		{"abc", nil, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseDecimal(c.in, c.strip...)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseDecimal(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
