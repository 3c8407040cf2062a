// Package glacier is the remote archive-service boundary.
//
// Service is the capability surface the commands consume. AWSService talks
// to Amazon S3 Glacier through aws-sdk-go-v2; StubService logs each call and
// answers with fixed mock values, which is what dry-run and test-debug runs
// are composed with.
//
// Every failure returned by a Service is either a *ServiceError (the remote
// side answered with an error) or a *TransportError (anything else).
package glacier

import (
	"context"
	"io"
)

// UploadResult is returned by a successful archive upload.
type UploadResult struct {
	ArchiveID string
	Checksum  string
	Location  string
}

// InventoryJob identifies an accepted inventory-retrieval request.
type InventoryJob struct {
	JobID    string
	Location string
}

// JobStatus is the state of an asynchronous job.
type JobStatus struct {
	Completed  bool
	StatusCode string
}

// JobOutput is the result of a finished job. The caller must close Body.
type JobOutput struct {
	Status int
	Body   io.ReadCloser
}

// Service is the remote archive service.
type Service interface {
	UploadArchive(ctx context.Context, vault, description string, body io.ReadSeeker) (UploadResult, error)
	DeleteArchive(ctx context.Context, vault, archiveID string) error
	InitiateInventoryJob(ctx context.Context, vault string) (InventoryJob, error)
	DescribeJob(ctx context.Context, vault, jobID string) (JobStatus, error)
	GetJobOutput(ctx context.Context, vault, jobID string) (JobOutput, error)
}

// Shorten abbreviates long archive and job ids for display.
func Shorten(id string) string {
	if len(id) <= 17 {
		return id
	}
	return id[:17] + "..."
}
