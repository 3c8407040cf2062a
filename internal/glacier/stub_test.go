package glacier

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/glacierkeep/internal/logging"
)

func TestStubService_ReturnsMocksAndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	var svc Service = NewStubService(log)
	ctx := context.Background()

	up, err := svc.UploadArchive(ctx, "V", "C::a", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, MockArchiveID, up.ArchiveID)

	require.NoError(t, svc.DeleteArchive(ctx, "V", up.ArchiveID))

	job, err := svc.InitiateInventoryJob(ctx, "V")
	require.NoError(t, err)
	assert.Equal(t, MockJobID, job.JobID)

	st, err := svc.DescribeJob(ctx, "V", job.JobID)
	require.NoError(t, err)
	assert.True(t, st.Completed)

	out, err := svc.GetJobOutput(ctx, "V", job.JobID)
	require.NoError(t, err)
	body, _ := io.ReadAll(out.Body)
	assert.Equal(t, MockInventory, string(body))

	logs := buf.String()
	for _, call := range []string{"upload_archive", "delete_archive", "initiate_job", "describe_job", "get_job_output"} {
		assert.Contains(t, logs, "call "+call)
	}
	assert.Contains(t, logs, "service=stub")
}
