package directory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidMarket indicates a market code is empty or not safe as a
// path component.
var ErrInvalidMarket = errors.New("directory: invalid market code")

// Cache persists one directory snapshot per market as a plain-text
// file under a base directory. Each line is "SYMBOL DESCRIPTION".
type Cache struct {
	baseDir string
}

// NewCache creates a Cache that stores snapshots under baseDir.
func NewCache(baseDir string) *Cache {
	return &Cache{baseDir: baseDir}
}

// Save writes the directory snapshot for the given market, replacing
// any previous snapshot.
func (c *Cache) Save(market string, d *Directory) error {
	p, err := c.path(market)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.baseDir, 0o755); err != nil {
		return fmt.Errorf("directory: creating cache dir: %w", err)
	}

	var buf bytes.Buffer
	for _, e := range d.Entries() {
		fmt.Fprintf(&buf, "%s %s\n", e.Symbol, e.Description)
	}

	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("directory: writing %s: %w", p, err)
	}
	return nil
}

// Load reads the directory snapshot for the given market.
// Returns (dir, true, nil) if a snapshot exists, (nil, false, nil) if not.
func (c *Cache) Load(market string) (*Directory, bool, error) {
	p, err := c.path(market)
	if err != nil {
		return nil, false, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("directory: reading %s: %w", p, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		symbol, description, _ := strings.Cut(line, " ")
		entries = append(entries, Entry{Symbol: symbol, Description: description})
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("directory: reading %s: %w", p, err)
	}
	return New(entries), true, nil
}

// path returns the snapshot file path for a market code.
// It rejects codes that are empty, dot-segments, or contain separators.
func (c *Cache) path(market string) (string, error) {
	if market == "" || market == "." || market == ".." || market != filepath.Base(market) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMarket, market)
	}
	return filepath.Join(c.baseDir, market+".txt"), nil
}
