package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/glacierkeep/internal/filex"
)

// OutputSink receives job output streams.
type OutputSink interface {
	// Write stores r under name and returns where it went.
	Write(name string, r io.Reader) (string, error)
}

// DirSink writes each output to a file in Dir.
type DirSink struct {
	Dir string
}

func (s DirSink) Write(name string, r io.Reader) (string, error) {
	dir, err := filex.EnsureDir(s.Dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// DiscardSink drains outputs without storing them. Dry runs use it.
type DiscardSink struct{}

func (DiscardSink) Write(name string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "(discarded) " + name, nil
}
