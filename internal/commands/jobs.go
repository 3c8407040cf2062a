package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Jobs checks every pending job of the vault and stores the output of the
// completed ones through the OutputSink.
//
// Jobs never edits pending_jobs: completed jobs stay listed and are checked
// again on the next run.
type Jobs struct {
	opts    Options
	env     Env
	tally   Tally
	results []ItemResult
}

func NewJobs(opts Options, env Env) *Jobs {
	return &Jobs{opts: opts, env: env.withDefaults()}
}

func (j *Jobs) Name() string { return "jobs" }

func (j *Jobs) Validate() error {
	if len(j.opts.Args) > 0 {
		return errors.New("checking Glacier jobs takes no arguments")
	}
	return nil
}

func (j *Jobs) Start(ctx context.Context) {
	if j.opts.Collection != "" {
		j.env.Log.Warn(ctx, "collection name ignored: Glacier jobs are not collection-specific", "collection", j.opts.Collection)
	}
	j.env.printf("Retrieving Glacier jobs for %s\n", j.opts.Vault)
}

func (j *Jobs) Execute(ctx context.Context) {
	jobs := j.env.Store.VaultJobs(j.opts.Vault, false)
	if jobs == nil || len(*jobs) == 0 {
		j.env.printf("No pending Glacier jobs for vault %s\n", j.opts.Vault)
		return
	}

	for _, job := range *jobs {
		outcome, err := j.checkOne(ctx, job)
		j.tally.Add(outcome)
		j.results = append(j.results, ItemResult{Item: job.JobID, Outcome: outcome, Err: err})
	}
}

func (j *Jobs) checkOne(ctx context.Context, job receipts.Job) (Outcome, error) {
	short := glacier.Shorten(job.JobID)
	log := j.env.Log.With("job_id", short, "type", job.Type)

	st, err := j.env.Service.DescribeJob(ctx, j.opts.Vault, job.JobID)
	if err != nil {
		err = glacier.Classify(err)
		log.Error(ctx, "job status request failed", "error", err)
		j.env.printf("Job status request for %s FAILED\n", short)
		return OutcomeFailed, err
	}

	j.env.printf("Job %s status request for %s succeeded\n", job.Type, short)
	j.env.printf("  Job status is %s\n", st.StatusCode)
	if !st.Completed {
		return OutcomePending, nil
	}

	out, err := j.env.Service.GetJobOutput(ctx, j.opts.Vault, job.JobID)
	if err != nil {
		err = glacier.Classify(err)
		log.Error(ctx, "job output request failed", "error", err)
		j.env.printf("Job %s output request for %s FAILED\n", job.Type, short)
		return OutcomeFailed, err
	}
	defer out.Body.Close()

	if out.Status < 200 || out.Status > 299 {
		j.env.printf("Job %s output request for %s FAILED with code %d\n", job.Type, short, out.Status)
		return OutcomeFailed, fmt.Errorf("job output status %d", out.Status)
	}

	where, err := j.env.Outputs.Write(OutputName(job.JobID), out.Body)
	if err != nil {
		log.Error(ctx, "failed to store job output", "error", err)
		j.env.printf("Job %s output for %s could not be saved\n", job.Type, short)
		return OutcomeFailed, err
	}

	j.env.printf("Job %s output request for %s succeeded\n", job.Type, short)
	j.env.printf("  Job output sent to %s\n", where)
	return OutcomeCompleted, nil
}

// OutputName returns the file name for a job's output: the fixed prefix
// plus the first 8 characters of the job id.
func OutputName(jobID string) string {
	if len(jobID) > 8 {
		jobID = jobID[:8]
	}
	return common.JobOutputPrefix + jobID
}

// Jobs does not edit pending_jobs.
func (j *Jobs) Persist() bool { return false }

func (j *Jobs) Finish(ctx context.Context) {
	if j.tally.Total() == 0 {
		return
	}
	j.env.printf("Jobs checked: %d, output retrieved: %d, still pending: %d, failed: %d\n",
		j.tally.Total(), j.tally.Completed, j.tally.Pending, j.tally.Failed)
}

func (j *Jobs) Tally() Tally { return j.tally }

func (j *Jobs) Results() []ItemResult { return j.results }
