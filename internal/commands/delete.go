package commands

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Delete removes every archive of a named collection.
//
// Receipts without an archive id are dropped locally. The others are
// dropped only once the remote delete succeeds. An emptied collection is
// removed from the vault.
type Delete struct {
	opts    Options
	env     Env
	tally   Tally
	results []ItemResult
	found   bool
	touched bool
}

func NewDelete(opts Options, env Env) *Delete {
	return &Delete{opts: opts, env: env.withDefaults()}
}

func (d *Delete) Name() string { return "delete" }

func (d *Delete) Validate() error {
	if d.opts.Collection == "" {
		return errors.New("name of collection to delete must be specified using -n NAME")
	}
	if len(d.opts.Args) > 0 {
		return errors.New("delete takes no arguments; specify a collection name with -n NAME")
	}
	return nil
}

func (d *Delete) Start(ctx context.Context) {
	d.env.printf("Deletion of upload collection %s started at %s\n", d.opts.Collection, d.env.stamp())
}

func (d *Delete) Execute(ctx context.Context) {
	coll := d.env.Store.Collection(d.opts.Vault, d.opts.Collection, false)
	if coll == nil {
		d.env.printf("No archive files found for collection %s\n", d.opts.Collection)
		return
	}
	d.found = true
	d.touched = coll.Len() > 0

	coll.Retain(func(r *receipts.Receipt) bool {
		outcome, err := d.deleteOne(ctx, r)
		d.tally.Add(outcome)
		d.results = append(d.results, ItemResult{Item: r.Filename, Outcome: outcome, Err: err})
		return outcome != OutcomeCompleted
	})

	if coll.Len() == 0 {
		d.env.Store.RemoveCollection(d.opts.Vault, d.opts.Collection)
	}
}

func (d *Delete) deleteOne(ctx context.Context, r *receipts.Receipt) (Outcome, error) {
	id := r.ArchiveID()
	if id == "" {
		d.env.printf("  Removing %s (%s) -- no Glacier archive ID\n", r.Filename, r.Description)
		return OutcomeCompleted, nil
	}

	if err := d.env.Service.DeleteArchive(ctx, d.opts.Vault, id); err != nil {
		err = glacier.Classify(err)
		d.env.Log.Error(ctx, "delete failed", "file", r.Filename, "description", r.Description, "error", err)
		d.env.printf("  Delete failed for %s (%s)\n", r.Filename, r.Description)
		return OutcomeFailed, err
	}

	d.env.printf("Successful deletion of %s (%s)\n", r.Filename, r.Description)
	return OutcomeCompleted, nil
}

// Persist is true once receipts were iterated.
func (d *Delete) Persist() bool { return d.touched }

func (d *Delete) Finish(ctx context.Context) {
	if !d.found {
		d.env.printf("Delete failed\n")
		return
	}
	d.env.printf("Delete %s completed at %s\n", d.opts.Collection, d.env.stamp())
	d.env.printf("Archives deleted: %d, failed: %d\n", d.tally.Completed, d.tally.Failed)
}

func (d *Delete) Tally() Tally { return d.tally }

func (d *Delete) Results() []ItemResult { return d.results }
