package commands

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Inventory requests an asynchronous inventory of the vault and records
// the job in the vault's pending jobs.
type Inventory struct {
	opts      Options
	env       Env
	succeeded bool
	job       *receipts.Job
}

func NewInventory(opts Options, env Env) *Inventory {
	return &Inventory{opts: opts, env: env.withDefaults()}
}

func (i *Inventory) Name() string { return "inventory" }

func (i *Inventory) Validate() error {
	if len(i.opts.Args) > 0 {
		return errors.New("inventory job takes no arguments")
	}
	return nil
}

func (i *Inventory) Start(ctx context.Context) {
	if i.opts.Collection != "" {
		i.env.Log.Warn(ctx, "collection name ignored: Glacier inventory includes the entire vault", "collection", i.opts.Collection)
	}
	i.env.printf("Inventory job request for %s sent at %s\n", i.opts.Vault, i.env.stamp())
}

func (i *Inventory) Execute(ctx context.Context) {
	res, err := i.env.Service.InitiateInventoryJob(ctx, i.opts.Vault)
	if err != nil {
		i.env.Log.Error(ctx, "inventory job request failed", "vault", i.opts.Vault, "error", glacier.Classify(err))
		i.env.printf("Vault inventory request for %s FAILED\n", i.opts.Vault)
		return
	}

	job := receipts.Job{
		Type:      receipts.JobTypeInventory,
		Requested: receipts.NewTimestamp(i.env.Now()),
		JobID:     res.JobID,
		Location:  res.Location,
	}
	i.env.Store.VaultJobs(i.opts.Vault, true).Append(job)
	i.job = &job
	i.succeeded = true

	i.env.printf("Inventory job request for %s succeeded\n", i.opts.Vault)
	i.env.printf("Glacier job ID %s\n", glacier.Shorten(job.JobID))
}

// Persist is true only when the request was accepted.
func (i *Inventory) Persist() bool { return i.succeeded }

func (i *Inventory) Finish(ctx context.Context) {
	if i.succeeded {
		i.env.printf("Inventory job pending for %s; check it with the jobs command\n", i.opts.Vault)
	}
}

// Job returns the recorded job, or nil when the request failed.
func (i *Inventory) Job() *receipts.Job { return i.job }
