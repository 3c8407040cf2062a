// Package receiptfile reads and writes the receipt document on disk.
package receiptfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/glacierkeep/internal/filex"
	"github.com/dmitrijs2005/glacierkeep/internal/migrate"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// File is the receipt document stored at Path.
type File struct {
	Path string
}

// New returns a File for path.
func New(path string) *File {
	return &File{Path: path}
}

// Load reads the document and upgrades it to the current schema version.
// A missing file yields a fresh document. vault is only used to upgrade a
// version 0 document.
func (f *File) Load(vault string) (*migrate.Result, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}

	res, err := migrate.Migrate(data, migrate.Options{Vault: vault})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", f.Path, err)
	}
	return res, nil
}

// Save writes doc as indented JSON with a trailing newline, replacing the
// file atomically.
func (f *File) Save(doc *receipts.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode receipts: %w", err)
	}
	data = append(data, '\n')

	if err := filex.WriteFileAtomic(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	return nil
}
