package extract

import (
	"iter"
	"strings"
)

// Document is a page body split into its ordered text lines. Every pass scans
// the same Document; nothing mutates it after construction.
type Document struct {
	lines []string
}

// NewDocument splits body on '\n', dropping a trailing '\r' from each line.
// A trailing newline does not produce an extra empty line.
func NewDocument(body string) Document {
	if body == "" {
		return Document{}
	}
	body = strings.TrimSuffix(body, "\n")
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return Document{lines: lines}
}

// Lines returns the document lines. Callers must not modify the slice.
func (d Document) Lines() []string { return d.lines }

// Len returns the number of lines.
func (d Document) Len() int { return len(d.lines) }

// Windows yields every run of n consecutive lines, in document order. A
// document shorter than n yields nothing. The yielded slices alias the
// document and must not be retained or modified.
func (d Document) Windows(n int) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		if n <= 0 {
			return
		}
		for i := 0; i+n <= len(d.lines); i++ {
			if !yield(d.lines[i : i+n : i+n]) {
				return
			}
		}
	}
}

// firstLine returns the first line containing any of markers.
func (d Document) firstLine(markers []string) (string, bool) {
	for _, l := range d.lines {
		if containsAny(l, markers) {
			return l, true
		}
	}
	return "", false
}

// followingLine returns the line right after the first line containing any of
// labels.
func (d Document) followingLine(labels []string) (string, bool) {
	for w := range d.Windows(2) {
		if containsAny(w[0], labels) {
			return w[1], true
		}
	}
	return "", false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
