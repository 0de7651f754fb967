// Package directory holds the cached list of listed companies for one
// exchange and the local substring search over it.
package directory

import (
	"fmt"
	"strings"
)

// Entry is one listed company: its ticker symbol and display name.
type Entry struct {
	Symbol      string
	Description string
}

// Directory is an ordered list of company entries for one exchange.
// It is replaced wholesale on a listing fetch, never partially updated.
type Directory struct {
	entries []Entry
}

// New creates a Directory from entries. The slice is copied.
func New(entries []Entry) *Directory {
	return &Directory{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns a copy of the entries in directory order.
func (d *Directory) Entries() []Entry {
	if d == nil {
		return nil
	}
	return append([]Entry(nil), d.entries...)
}

// Filter returns one "SYMBOL: NAME" line per entry whose description
// contains needle, case-insensitively. The result preserves directory
// order. An empty needle matches nothing.
func (d *Directory) Filter(needle string) string {
	if d == nil || needle == "" {
		return ""
	}
	needle = strings.ToUpper(needle)

	var b strings.Builder
	for _, e := range d.entries {
		if !strings.Contains(strings.ToUpper(e.Description), needle) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", e.Symbol, e.Description)
	}
	return b.String()
}
