package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/migrate"
)

type harness struct {
	dir      string
	receipts string
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{dir: dir, receipts: filepath.Join(dir, "receipts.json")}
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	full := append([]string{"-r", h.receipts, "-output_dir", h.dir, "-log_level", "error"}, args...)
	return Main(context.Background(), full, &h.stdout, &h.stderr)
}

func (h *harness) file(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func (h *harness) load(t *testing.T) *migrate.Result {
	t.Helper()
	data, err := os.ReadFile(h.receipts)
	require.NoError(t, err)
	res, err := migrate.Migrate(data, migrate.Options{Vault: "unused"})
	require.NoError(t, err)
	return res
}

func TestMain_Help(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ExitOK, h.run("-h"))

	out := h.stdout.String()
	assert.Contains(t, out, "Usage: glacierkeep")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "inventory")
}

func TestMain_UsageErrors(t *testing.T) {
	tests := map[string][]string{
		"no command":       nil,
		"unknown command":  {"frobnicate"},
		"unknown flag":     {"list", "-bogus"},
		"upload no files":  {"-t", "upload", "-n", "C"},
		"delete no name":   {"-t", "delete"},
		"list with args":   {"list", "extra"},
		"bad log level":    {"list", "-log_level", "loud"},
		"empty vault name": {"list", "-v", ""},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, ExitUsage, h.run(args...))
			assert.Contains(t, h.stderr.String(), "glacierkeep:")
			assert.NoFileExists(t, h.receipts)
		})
	}
}

func TestMain_TestDebugUploadPersists(t *testing.T) {
	h := newHarness(t)
	a := h.file(t, "a.txt", "hello")

	require.Equal(t, ExitOK, h.run("-t", "-v", "cold", "upload", "-n", "docs", a))
	assert.Contains(t, h.stdout.String(), "Archive transfers completed: 1, failed: 0, skipped: 0")

	res := h.load(t)
	assert.False(t, res.Migrated)
	r := mustCollection(t, res, "cold", "docs").Find(a)
	require.NotNil(t, r)
	assert.Equal(t, glacier.MockArchiveID, r.ArchiveID())
	assert.Equal(t, int64(5), r.Size)

	require.Equal(t, ExitOK, h.run("-t", "-v", "cold", "upload", "-n", "docs", a))
	assert.Contains(t, h.stdout.String(), "skipped: 1")
}

func TestMain_DryRunNeverWrites(t *testing.T) {
	h := newHarness(t)
	a := h.file(t, "a.txt", "hello")

	require.Equal(t, ExitOK, h.run("-d", "upload", "-n", "docs", a))
	assert.Contains(t, h.stdout.String(), "Dry-run -- no actions will be taken")
	assert.NoFileExists(t, h.receipts)

	require.Equal(t, ExitOK, h.run("-d", "inventory"))
	assert.NoFileExists(t, h.receipts)
}

func TestMain_DryRunDeleteLeavesStoreUntouched(t *testing.T) {
	h := newHarness(t)
	a := h.file(t, "a.txt", "hello")

	require.Equal(t, ExitOK, h.run("-t", "upload", "-n", "C", a))
	before, err := os.ReadFile(h.receipts)
	require.NoError(t, err)

	require.Equal(t, ExitOK, h.run("-d", "delete", "-n", "C"))
	assert.Contains(t, h.stdout.String(), "Archives deleted: 1, failed: 0")

	after, err := os.ReadFile(h.receipts)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.NotNil(t, mustCollection(t, h.load(t), common.DefaultVault, "C").Find(a))
}

func TestMain_StartupFailures(t *testing.T) {
	tests := map[string]string{
		"future version": `{"version": 99, "vaults": {}}`,
		"malformed":      `{"version": 2, "vaults": `,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			require.NoError(t, os.WriteFile(h.receipts, []byte(body), 0o600))

			assert.Equal(t, ExitFailure, h.run("-t", "inventory"))
			assert.Empty(t, h.stdout.String(), "no command may start")

			data, err := os.ReadFile(h.receipts)
			require.NoError(t, err)
			assert.Equal(t, body, string(data))
		})
	}
}

func TestMain_LegacyDocumentUpgradedOnWrite(t *testing.T) {
	h := newHarness(t)
	legacy := `{"photos": [{"filename": "a.jpg", "description": "photos::a.jpg", "size": 1}]}`
	require.NoError(t, os.WriteFile(h.receipts, []byte(legacy), 0o600))

	require.Equal(t, ExitOK, h.run("-v", "cold", "list", "-n", "photos"))
	assert.Contains(t, h.stdout.String(), "Upload collection photos contains 1 archives")
	data, err := os.ReadFile(h.receipts)
	require.NoError(t, err)
	assert.Equal(t, legacy, string(data), "read-only commands leave the file alone")

	require.Equal(t, ExitOK, h.run("-t", "-v", "cold", "inventory"))
	res := h.load(t)
	assert.False(t, res.Migrated)
	assert.Equal(t, 1, mustCollection(t, res, "cold", "photos").Len())
}

func TestMain_InventoryThenJobs(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, ExitOK, h.run("-t", "inventory"))
	require.Equal(t, ExitOK, h.run("-t", "jobs"))

	data, err := os.ReadFile(filepath.Join(h.dir, "job_output.MOCKnTnE"))
	require.NoError(t, err)
	assert.Equal(t, glacier.MockInventory, string(data))
	assert.Contains(t, h.stdout.String(), "output retrieved: 1")
}

// scriptedService fails every upload with a service error.
type scriptedService struct {
	*glacier.StubService
}

func (scriptedService) UploadArchive(ctx context.Context, vault, description string, body io.ReadSeeker) (glacier.UploadResult, error) {
	return glacier.UploadResult{}, &glacier.ServiceError{Code: "RequestTimeoutException", Message: "too slow"}
}

func TestMain_RealServicePath(t *testing.T) {
	orig := newAWSService
	t.Cleanup(func() { newAWSService = orig })

	var got glacier.AWSConfig
	newAWSService = func(ctx context.Context, c glacier.AWSConfig) (glacier.Service, error) {
		got = c
		return scriptedService{StubService: glacier.NewStubService(discardLogger())}, nil
	}

	h := newHarness(t)
	a := h.file(t, "a.txt", "x")

	assert.Equal(t, ExitOK, h.run("-region", "eu-west-1", "upload", "-n", "C", a), "item failures still exit 0")
	assert.Equal(t, "eu-west-1", got.Region)
	assert.Contains(t, h.stdout.String(), "completed: 0, failed: 1")

	r := mustCollection(t, h.load(t), "corbuntu_archive", "C").Find(a)
	require.NotNil(t, r)
	assert.Equal(t, "RequestTimeoutException", r.GlacierResponse.GlacierError)

	newAWSService = func(context.Context, glacier.AWSConfig) (glacier.Service, error) {
		return nil, errors.New("no credentials")
	}
	assert.Equal(t, ExitFailure, h.run("inventory"))
	assert.Contains(t, h.stderr.String(), "no credentials")
}
