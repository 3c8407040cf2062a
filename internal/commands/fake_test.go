package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// fakeService is an in-memory glacier.Service with scripted failures.
type fakeService struct {
	uploads   []string // descriptions, in call order
	deletes   []string // archive ids
	inventory int
	describes []string
	outputs   []string

	uploadErr   map[string]error // by description
	deleteErr   map[string]error // by archive id
	inventErr   error
	describeErr map[string]error
	outputErr   map[string]error
	pending     map[string]bool
	outStatus   int

	seq int
}

func newFakeService() *fakeService {
	return &fakeService{
		uploadErr:   map[string]error{},
		deleteErr:   map[string]error{},
		describeErr: map[string]error{},
		outputErr:   map[string]error{},
		pending:     map[string]bool{},
		outStatus:   200,
	}
}

func (f *fakeService) UploadArchive(ctx context.Context, vault, description string, body io.ReadSeeker) (glacier.UploadResult, error) {
	f.uploads = append(f.uploads, description)
	if err := f.uploadErr[description]; err != nil {
		return glacier.UploadResult{}, err
	}
	f.seq++
	return glacier.UploadResult{
		ArchiveID: fmt.Sprintf("archive-%d", f.seq),
		Checksum:  fmt.Sprintf("sum-%d", f.seq),
		Location:  fmt.Sprintf("/vaults/%s/archives/%d", vault, f.seq),
	}, nil
}

func (f *fakeService) DeleteArchive(ctx context.Context, vault, archiveID string) error {
	f.deletes = append(f.deletes, archiveID)
	return f.deleteErr[archiveID]
}

func (f *fakeService) InitiateInventoryJob(ctx context.Context, vault string) (glacier.InventoryJob, error) {
	f.inventory++
	if f.inventErr != nil {
		return glacier.InventoryJob{}, f.inventErr
	}
	return glacier.InventoryJob{JobID: fmt.Sprintf("JOBID%04d-abcdefgh", f.inventory), Location: "/jobs"}, nil
}

func (f *fakeService) DescribeJob(ctx context.Context, vault, jobID string) (glacier.JobStatus, error) {
	f.describes = append(f.describes, jobID)
	if err := f.describeErr[jobID]; err != nil {
		return glacier.JobStatus{}, err
	}
	if f.pending[jobID] {
		return glacier.JobStatus{Completed: false, StatusCode: "InProgress"}, nil
	}
	return glacier.JobStatus{Completed: true, StatusCode: "Succeeded"}, nil
}

func (f *fakeService) GetJobOutput(ctx context.Context, vault, jobID string) (glacier.JobOutput, error) {
	f.outputs = append(f.outputs, jobID)
	if err := f.outputErr[jobID]; err != nil {
		return glacier.JobOutput{}, err
	}
	return glacier.JobOutput{Status: f.outStatus, Body: io.NopCloser(strings.NewReader("inventory of " + jobID))}, nil
}

// memPersister counts saves.
type memPersister struct {
	saves int
	err   error
}

func (m *memPersister) Save(doc *receipts.Document) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	return nil
}

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestEnv(svc glacier.Service) (Env, *bytes.Buffer) {
	var out bytes.Buffer
	return Env{
		Store:   receipts.NewStore(nil),
		Service: svc,
		Out:     &out,
		Now:     func() time.Time { return fixedNow },
	}, &out
}

func writeFiles(t *testing.T, contents map[string]string) map[string]string {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[string]string, len(contents))
	for name, body := range contents {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		paths[name] = p
	}
	return paths
}
