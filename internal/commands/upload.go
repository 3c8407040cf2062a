package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Failure messages stored in Receipt.Error.
const (
	msgServiceFailure   = "Glacier reported a failure during upload"
	msgTransportFailure = "Exception caught during upload"
)

// Upload archives files into a named collection.
//
// A receipt is keyed by filename within the collection: re-uploading a file
// updates its receipt instead of adding a new one. A receipt that already
// carries an archive id is only overwritten with Force.
type Upload struct {
	opts    Options
	env     Env
	tally   Tally
	results []ItemResult
}

// NewUpload returns an upload command. An empty collection name is replaced
// by a random one.
func NewUpload(opts Options, env Env) *Upload {
	if opts.Collection == "" {
		opts.Collection = randomCollectionName()
	}
	return &Upload{opts: opts, env: env.withDefaults()}
}

func (u *Upload) Name() string { return "upload" }

func (u *Upload) Validate() error {
	if len(u.opts.Args) == 0 {
		return errors.New("no files specified for upload")
	}
	return nil
}

func (u *Upload) Start(ctx context.Context) {
	u.env.printf("Upload %s started at %s\n", u.opts.Collection, u.env.stamp())
}

func (u *Upload) Execute(ctx context.Context) {
	coll := u.env.Store.Collection(u.opts.Vault, u.opts.Collection, true)

	for _, file := range u.opts.Args {
		outcome, err := u.uploadOne(ctx, coll, file)
		u.tally.Add(outcome)
		u.results = append(u.results, ItemResult{Item: file, Outcome: outcome, Err: err})

		switch outcome {
		case OutcomeCompleted:
			u.env.printf("Archive %s uploaded successfully at %s\n", file, u.env.stamp())
		case OutcomeSkipped:
			u.env.printf("Archive %s skipped -- already archived\n", file)
		default:
			u.env.printf("Archive %s FAILED upload at %s\n", file, u.env.stamp())
		}
	}
}

func (u *Upload) uploadOne(ctx context.Context, coll *receipts.Collection, file string) (Outcome, error) {
	log := u.env.Log.With("file", file, "collection", u.opts.Collection)

	f, size, err := openForUpload(file)
	if err != nil {
		log.Error(ctx, "failed to open file", "error", err)
		if coll.Find(file) == nil {
			r := &receipts.Receipt{Filename: file, Description: receipts.DefaultDescription(u.opts.Collection, file)}
			r.MarkFailed(err.Error(), "", "", u.env.Now())
			coll.Append(r)
		}
		return OutcomeFailed, err
	}
	defer f.Close()

	r := coll.Find(file)
	if r != nil {
		if r.Archived() && !u.opts.Force {
			log.Warn(ctx, "skipping file: a Glacier archive ID already exists and would be lost; use -force to overwrite",
				"archive_id", glacier.Shorten(r.ArchiveID()))
			return OutcomeSkipped, nil
		}
		log.Info(ctx, "updating existing receipt")
		r.Error = nil
	} else {
		r = &receipts.Receipt{Filename: file, Description: receipts.DefaultDescription(u.opts.Collection, file)}
		coll.Append(r)
	}
	r.Size = size

	res, err := u.env.Service.UploadArchive(ctx, u.opts.Vault, r.Description, f)
	now := u.env.Now()
	if err == nil {
		r.MarkSucceeded(res.ArchiveID, res.Checksum, res.Location, now)
		log.Info(ctx, "archive uploaded", "archive_id", glacier.Shorten(res.ArchiveID))
		return OutcomeCompleted, nil
	}

	switch e := glacier.Classify(err).(type) {
	case *glacier.ServiceError:
		log.Error(ctx, "upload rejected by service", "code", e.Code, "message", e.Message)
		r.MarkFailed(msgServiceFailure, e.Code, e.Message, now)
		return OutcomeFailed, e
	case *glacier.TransportError:
		log.Error(ctx, "upload failed", "kind", e.Kind, "message", e.Message)
		r.MarkFailed(msgTransportFailure, e.Kind, e.Message, now)
		return OutcomeFailed, e
	default:
		r.MarkFailed(msgTransportFailure, fmt.Sprintf("%T", err), err.Error(), now)
		return OutcomeFailed, err
	}
}

func openForUpload(file string) (*os.File, int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, 0, fmt.Errorf("%w %s: %v", common.ErrFileOpen, file, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("%w %s: %v", common.ErrFileOpen, file, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("%w %s: is a directory", common.ErrFileOpen, file)
	}
	return f, info.Size(), nil
}

// Persist is true for every upload run, including all-failure runs.
func (u *Upload) Persist() bool { return true }

func (u *Upload) Finish(ctx context.Context) {
	u.env.printf("Upload %s completed at %s\n", u.opts.Collection, u.env.stamp())
	u.env.printf("Archive transfers completed: %d, failed: %d, skipped: %d\n",
		u.tally.Completed, u.tally.Failed, u.tally.Skipped)
}

// Tally returns the outcome counts.
func (u *Upload) Tally() Tally { return u.tally }

// Results returns per-file outcomes in argument order.
func (u *Upload) Results() []ItemResult { return u.results }

// Collection returns the collection name in use.
func (u *Upload) Collection() string { return u.opts.Collection }
