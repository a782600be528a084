package extract

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// thousandsSeparator is the only locale convention handled: "1.200" is twelve
// hundred and there is no decimal comma.
const thousandsSeparator = "."

// StripMarkup returns the text content of an HTML fragment with every tag
// and comment removed and entities unescaped. It tokenizes the fragment; it
// does not build a tree.
func StripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// clean strips markup and then removes each strip token in order, as literal
// substrings.
func clean(fragment string, strip []string) string {
	s := StripMarkup(fragment)
	for _, tok := range strip {
		if tok == "" {
			continue
		}
		s = strings.ReplaceAll(s, tok, "")
	}
	return s
}

// ParseUInt parses the unsigned integer left in fragment after removing
// markup, the strip tokens and thousands separators. It reports false when
// nothing parseable remains.
func ParseUInt(fragment string, strip ...string) (uint32, bool) {
	n, err := ParseUIntStrict(fragment, strip...)
	return n, err == nil
}

// ParseUIntStrict is ParseUInt reporting why the fragment did not parse.
func ParseUIntStrict(fragment string, strip ...string) (uint32, error) {
	s := clean(fragment, strip)
	s = strings.ReplaceAll(s, thousandsSeparator, "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// ParseDecimal parses the decimal number left in fragment after removing
// markup and the strip tokens. The period is the decimal point here.
func ParseDecimal(fragment string, strip ...string) (float64, bool) {
	s := strings.TrimSpace(clean(fragment, strip))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
