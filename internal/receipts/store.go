package receipts

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dmitrijs2005/glacierkeep/internal/pathstore"
)

// Store exposes vault, collection and job accessors over a Document.
//
// Calls with create=false never mutate the document. Calls with create=true
// may add empty containers along the path.
type Store struct {
	doc *Document
}

// NewStore wraps doc. A nil doc is replaced by an empty document.
func NewStore(doc *Document) *Store {
	if doc == nil {
		doc = NewDocument()
	}
	doc.Normalize()
	return &Store{doc: doc}
}

// Document returns the underlying document.
func (s *Store) Document() *Document {
	return s.doc
}

// Vault returns the named vault, or nil.
func (s *Store) Vault(name string, create bool) *Vault {
	v, _ := pathstore.Lookup(s.doc.Vaults, name, create, NewVault)
	return v
}

// VaultCollections returns the collection mapping of the named vault, or
// nil when the vault does not exist and create is false.
func (s *Store) VaultCollections(vault string, create bool) *orderedmap.OrderedMap[string, *Collection] {
	v := s.Vault(vault, create)
	if v == nil {
		return nil
	}
	return v.Collections
}

// Collection returns the named collection of vault, or nil.
func (s *Store) Collection(vault, name string, create bool) *Collection {
	c, _ := pathstore.Lookup(s.VaultCollections(vault, create), name, create, func() *Collection {
		return &Collection{Receipts: []*Receipt{}}
	})
	return c
}

// RemoveCollection drops the named collection from vault and reports
// whether it existed.
func (s *Store) RemoveCollection(vault, name string) bool {
	cs := s.VaultCollections(vault, false)
	if cs == nil {
		return false
	}
	_, ok := cs.Delete(name)
	return ok
}

// VaultJobs returns the pending-job sequence of vault, or nil.
func (s *Store) VaultJobs(vault string, create bool) *Jobs {
	v := s.Vault(vault, create)
	if v == nil {
		return nil
	}
	return &v.PendingJobs
}
