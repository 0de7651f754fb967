// Package finnterm provides embedded runtime data (the exchange-code
// listing) and an overlay filesystem that checks local disk first,
// falling back to embedded.
package finnterm

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed data/exchanges.txt
var rawData embed.FS

// Data is the embedded data filesystem with the "data/" prefix stripped.
var Data = mustSub(rawData, "data")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
// Users can override the shipped exchange listing by dropping an
// exchanges.txt into their config directory.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := os.Open(o.localDir + "/" + name)
	if err == nil {
		return f, nil
	}
	return o.embedded.Open(name)
}
