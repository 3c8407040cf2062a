// Package migrate upgrades raw receipt documents to receipts.CurrentVersion.
//
// Older documents are loaded as an ordered raw tree (pathstore.Node). The
// Steps chain is applied in ascending order until the document reaches the
// current version, and the result is decoded into a typed receipts.Document.
//
// Version history:
//
//	0: { <collection>: [receipt...] }                   (no version field)
//	1: { "version": 1, "vaults": { <vault>: { <collection>: [...] } } }
//	2: { "version": 2, "vaults": { <vault>: { "collections": {...}, "pending_jobs": [] } } }
package migrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/pathstore"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Options carries the external inputs a step may depend on.
type Options struct {
	// Vault names the vault that receives a version 0 document.
	Vault string
}

// Step upgrades a raw document from version From to From+1.
type Step struct {
	From  int
	Apply func(doc *pathstore.Node, opts Options) (*pathstore.Node, error)
}

// Steps is the ordered migration chain. Steps[i].From must equal i.
var Steps = []Step{
	{From: 0, Apply: wrapInVault},
	{From: 1, Apply: nestCollections},
}

// Result describes a completed migration.
type Result struct {
	Document    *receipts.Document
	FromVersion int
	Migrated    bool
}

// Migrate parses data and upgrades it to receipts.CurrentVersion.
//
// A nil data means no document exists yet and yields a fresh document.
// Unparseable input wraps common.ErrMalformedStore; a version newer than
// receipts.CurrentVersion wraps common.ErrFutureSchemaVersion. The input is
// left untouched on error.
func Migrate(data []byte, opts Options) (*Result, error) {
	if data == nil {
		return &Result{Document: receipts.NewDocument(), FromVersion: receipts.CurrentVersion}, nil
	}

	raw, err := pathstore.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedStore, err)
	}

	from, err := Version(raw)
	if err != nil {
		return nil, err
	}
	if from > receipts.CurrentVersion {
		return nil, fmt.Errorf("%w: %d (supported up to %d)", common.ErrFutureSchemaVersion, from, receipts.CurrentVersion)
	}

	upgraded, err := Apply(raw, from, opts)
	if err != nil {
		return nil, err
	}

	doc, err := decode(upgraded)
	if err != nil {
		return nil, err
	}

	return &Result{Document: doc, FromVersion: from, Migrated: from < receipts.CurrentVersion}, nil
}

// Version reads the "version" field of raw. A missing field means version 0.
func Version(raw *pathstore.Node) (int, error) {
	v, ok := raw.Get("version")
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
			return 0, fmt.Errorf("%w: invalid version %v", common.ErrMalformedStore, n)
		}
		return int(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("%w: invalid version %d", common.ErrMalformedStore, n)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: version is %T, not a number", common.ErrMalformedStore, v)
	}
}

// Apply runs every step needed to bring raw from version from to
// receipts.CurrentVersion and stamps the result with the current version.
func Apply(raw *pathstore.Node, from int, opts Options) (*pathstore.Node, error) {
	doc := raw
	for v := from; v < receipts.CurrentVersion; v++ {
		if v >= len(Steps) || Steps[v].From != v {
			return nil, fmt.Errorf("no migration step from version %d", v)
		}
		next, err := Steps[v].Apply(doc, opts)
		if err != nil {
			return nil, fmt.Errorf("migrate %d->%d: %w", v, v+1, err)
		}
		doc = next
	}
	doc.Set("version", receipts.CurrentVersion)
	return doc, nil
}

// wrapInVault moves the flat collection mapping of a version 0 document
// under the vault named by opts.Vault.
func wrapInVault(doc *pathstore.Node, opts Options) (*pathstore.Node, error) {
	if opts.Vault == "" {
		return nil, errors.New("vault name required to upgrade a version 0 document")
	}

	collections := pathstore.NewNode()
	for _, k := range doc.Keys() {
		if k == "version" {
			continue
		}
		v, _ := doc.Get(k)
		collections.Set(k, v)
	}

	out := pathstore.NewNode()
	out.Set("version", 1)
	pathstore.SetOrCreate(out, collections, "vaults", opts.Vault)
	return out, nil
}

// nestCollections turns every vault from a flat collection mapping into
// {collections, pending_jobs}.
func nestCollections(doc *pathstore.Node, _ Options) (*pathstore.Node, error) {
	out := pathstore.NewNode()
	for _, k := range doc.Keys() {
		if k == "vaults" {
			continue
		}
		v, _ := doc.Get(k)
		out.Set(k, v)
	}

	vaults := pathstore.NewNode()
	out.Set("vaults", vaults)

	raw, ok := pathstore.Seek(doc, "vaults")
	if !ok || raw == nil {
		return out, nil
	}
	old, ok := raw.(*pathstore.Node)
	if !ok {
		return nil, fmt.Errorf("vaults is %T, not an object", raw)
	}

	for _, name := range old.Keys() {
		contents, _ := old.Get(name)
		collections, ok := contents.(*pathstore.Node)
		if contents == nil {
			collections, ok = pathstore.NewNode(), true
		}
		if !ok {
			return nil, fmt.Errorf("vault %q is %T, not an object", name, contents)
		}
		pathstore.SetOrCreate(vaults, collections, name, "collections")
		pathstore.SetOrCreate(vaults, []any{}, name, "pending_jobs")
	}
	out.Set("version", 2)
	return out, nil
}

func decode(raw *pathstore.Node) (*receipts.Document, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedStore, err)
	}
	var doc receipts.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedStore, err)
	}
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedStore, err)
	}
	doc.Normalize()
	return &doc, nil
}
