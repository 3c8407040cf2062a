package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/logging"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Persister writes the document back to storage.
type Persister interface {
	Save(doc *receipts.Document) error
}

// Lifecycle drives a Command through Validate, Start, Execute, persist and
// Finish. The document is saved at most once, and never on a dry run.
type Lifecycle struct {
	Store     *receipts.Store
	Persister Persister
	DryRun    bool
	Log       logging.Logger
	Out       io.Writer
}

// Report summarises a lifecycle run.
type Report struct {
	Persisted bool
}

// Run executes cmd. A validation failure wraps common.ErrUsage and stops
// before Start. A save failure is returned after Execute; Finish is then
// skipped.
func (l *Lifecycle) Run(ctx context.Context, cmd Command) (Report, error) {
	var rep Report

	if err := cmd.Validate(); err != nil {
		return rep, fmt.Errorf("%w: %s: %v", common.ErrUsage, cmd.Name(), err)
	}

	cmd.Start(ctx)
	if l.DryRun && l.Out != nil {
		fmt.Fprintln(l.Out, "Dry-run -- no actions will be taken")
	}

	cmd.Execute(ctx)

	if cmd.Persist() && !l.DryRun {
		if err := l.Persister.Save(l.Store.Document()); err != nil {
			return rep, fmt.Errorf("%s: %w", cmd.Name(), err)
		}
		rep.Persisted = true
		if l.Log != nil {
			l.Log.Debug(ctx, "receipts saved", "command", cmd.Name())
		}
	}

	cmd.Finish(ctx)
	return rep, nil
}
