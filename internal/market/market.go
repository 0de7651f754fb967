// Package market holds the exchange-code whitelist used to validate
// market selection input.
package market

import (
	"bufio"
	"fmt"
	"io/fs"
	"strings"
)

// ListingFile is the name of the exchange listing inside the data filesystem.
const ListingFile = "exchanges.txt"

// Set is the whitelist of exchange codes, in listing order.
type Set struct {
	order []string
	codes map[string]struct{}
}

// Load parses the exchange listing from fsys, one code per line.
// Blank lines and lines starting with '#' are skipped.
func Load(fsys fs.FS) (*Set, error) {
	f, err := fsys.Open(ListingFile)
	if err != nil {
		return nil, fmt.Errorf("market: opening %s: %w", ListingFile, err)
	}
	defer f.Close()

	s := &Set{codes: make(map[string]struct{})}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := s.codes[line]; dup {
			continue
		}
		s.order = append(s.order, line)
		s.codes[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("market: reading %s: %w", ListingFile, err)
	}
	if len(s.order) == 0 {
		return nil, fmt.Errorf("market: %s contains no exchange codes", ListingFile)
	}
	return s, nil
}

// Valid reports whether code is a known exchange code.
// Matching is exact and case-sensitive.
func (s *Set) Valid(code string) bool {
	_, ok := s.codes[code]
	return ok
}

// Codes returns the exchange codes in listing order.
func (s *Set) Codes() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of exchange codes in the set.
func (s *Set) Len() int {
	return len(s.order)
}
