package commands

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
)

// List prints local receipts. With a collection name it lists that
// collection's receipts, otherwise every collection in the vault.
type List struct {
	opts  Options
	env   Env
	tally Tally
	found bool
	count int
}

func NewList(opts Options, env Env) *List {
	return &List{opts: opts, env: env.withDefaults()}
}

func (l *List) Name() string { return "list" }

func (l *List) Validate() error {
	if len(l.opts.Args) > 0 {
		return errors.New("list takes no arguments; specify a collection name with -n NAME")
	}
	return nil
}

func (l *List) Start(ctx context.Context) {
	if l.opts.Collection != "" {
		l.env.printf("Local listing for collection %s:\n", l.opts.Collection)
	} else {
		l.env.printf("Local listing of all collections\n")
	}
}

func (l *List) Execute(ctx context.Context) {
	if l.opts.Collection != "" {
		l.listCollection()
		return
	}
	l.listVault()
}

func (l *List) listCollection() {
	coll := l.env.Store.Collection(l.opts.Vault, l.opts.Collection, false)
	if coll == nil {
		l.env.printf("No archive files found for collection %s\n", l.opts.Collection)
		return
	}
	l.found = true
	l.count = coll.Len()

	for _, r := range coll.Receipts {
		l.env.printf("%s\n", r.Filename)
		l.env.printf("  Description: %s\n", r.Description)
		l.env.printf("  %d bytes\n", r.Size)
		if r.Archived() {
			l.env.printf("  Archive file uploaded %s\n", r.Completed)
			l.env.printf("  Glacier archive ID: %s\n", glacier.Shorten(r.ArchiveID()))
			l.tally.Add(OutcomeCompleted)
			l.tally.Bytes += r.Size
			continue
		}
		msg := r.ErrorMessage()
		if msg == "" {
			msg = "None"
		}
		l.env.printf("  FAILED archive file upload at %s\n", r.Completed)
		l.env.printf("  Error message: %s\n", msg)
		l.tally.Add(OutcomeFailed)
	}
}

func (l *List) listVault() {
	cs := l.env.Store.VaultCollections(l.opts.Vault, false)
	if cs == nil {
		l.env.printf("No collections found for vault %s\n", l.opts.Vault)
		return
	}
	l.found = true
	l.count = cs.Len()

	for p := cs.Oldest(); p != nil; p = p.Next() {
		n := p.Value.Len()
		l.env.printf("  Collection: %-24s -- %d archives\n", p.Key, n)
		l.tally.Completed += n
	}
}

// Listing never changes the document.
func (l *List) Persist() bool { return false }

func (l *List) Finish(ctx context.Context) {
	if !l.found {
		l.env.printf("Listing failed\n")
		return
	}
	if l.opts.Collection != "" {
		l.env.printf("\nUpload collection %s contains %d archives\n", l.opts.Collection, l.count)
		l.env.printf("%d files complete, %d files failed to upload\n", l.tally.Completed, l.tally.Failed)
		l.env.printf("%d bytes successfully uploaded\n", l.tally.Bytes)
		return
	}
	l.env.printf("\n%d collections, %d files total\n", l.count, l.tally.Completed)
}

// Tally returns the listing counts. For a vault-wide listing Completed is
// the total number of receipts.
func (l *List) Tally() Tally { return l.tally }
