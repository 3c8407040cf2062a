package glacier

import (
	"context"
	"io"
	"strings"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/logging"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Mock values returned by StubService.
const (
	MockArchiveID = "MOCKnTnEPDwwTDuivbmS-FvTTG3V3MlZIDnoYcTMH4xzu24iNkee67b8moEVALiLkfWuUN_og6JzgjfkMCdyylaWrg"
	MockChecksum  = "MOCK3a35367088c595b367a30eb334942412584dbecaff542dd2376d25685cdd8662"
	MockLocation  = "MOCK/31545654644/vaults/corbuntu_archive/archives/nTnEmDwhuwTDuivb_ogKy8DcQzgjfkMCdyylaWrg"
	MockJobID     = "MOCKnTnEPDwwTDuivbmS-FvTTG3V3MlZIDnoYcTMH4xzu24iNkee67b8moEVALiLkfWuUN_og6JzgjfkMCdyylaWrg"
	MockInventory = "VaultARN:arn:aws:glacier:us-east-1:923154980164:vaults/corbuntu_archive,InventoryDate:2015-10-12T13:46:09Z,ArchiveList:[]"
)

// StubService never contacts the network. Each call is logged with the
// arguments a real call would have carried, and a fixed success is returned.
type StubService struct {
	log logging.Logger
}

// NewStubService returns a stub that logs through log.
func NewStubService(log logging.Logger) *StubService {
	return &StubService{log: log.With("service", "stub")}
}

func (s *StubService) UploadArchive(ctx context.Context, vault, description string, body io.ReadSeeker) (UploadResult, error) {
	s.log.Info(ctx, "call upload_archive", "account_id", common.AccountIDSelf, "vault_name", vault, "archive_description", description)
	return UploadResult{ArchiveID: MockArchiveID, Checksum: MockChecksum, Location: MockLocation}, nil
}

func (s *StubService) DeleteArchive(ctx context.Context, vault, archiveID string) error {
	s.log.Info(ctx, "call delete_archive", "account_id", common.AccountIDSelf, "vault_name", vault, "archive_id", archiveID)
	return nil
}

func (s *StubService) InitiateInventoryJob(ctx context.Context, vault string) (InventoryJob, error) {
	s.log.Info(ctx, "call initiate_job", "account_id", common.AccountIDSelf, "vault_name", vault, "type", receipts.JobTypeInventory)
	return InventoryJob{JobID: MockJobID, Location: MockLocation}, nil
}

func (s *StubService) DescribeJob(ctx context.Context, vault, jobID string) (JobStatus, error) {
	s.log.Info(ctx, "call describe_job", "account_id", common.AccountIDSelf, "vault_name", vault, "job_id", jobID)
	return JobStatus{Completed: true, StatusCode: "Succeeded"}, nil
}

func (s *StubService) GetJobOutput(ctx context.Context, vault, jobID string) (JobOutput, error) {
	s.log.Info(ctx, "call get_job_output", "account_id", common.AccountIDSelf, "vault_name", vault, "job_id", jobID)
	return JobOutput{Status: 200, Body: io.NopCloser(strings.NewReader(MockInventory))}, nil
}
