package receiptfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

func TestLoad_MissingFileGivesFreshDocument(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "receipts.json"))

	res, err := f.Load("V")
	require.NoError(t, err)
	assert.Equal(t, receipts.CurrentVersion, res.Document.Version)
	assert.Equal(t, 0, res.Document.Vaults.Len())

	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestSaveThenLoad(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "receipts.json"))

	s := receipts.NewStore(nil)
	s.Collection("V", "C", true).Append(&receipts.Receipt{Filename: "a", Description: "C::a", Size: 4})
	require.NoError(t, f.Save(s.Document()))

	raw, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(raw), "}\n"))
	assert.Contains(t, string(raw), "\n  \"vaults\"")

	res, err := f.Load("V")
	require.NoError(t, err)
	assert.False(t, res.Migrated)
	got := receipts.NewStore(res.Document).Collection("V", "C", false)
	require.NotNil(t, got)
	assert.Equal(t, int64(4), got.Find("a").Size)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{ nope"), 0o600))
	_, err := New(bad).Load("V")
	assert.ErrorIs(t, err, common.ErrMalformedStore)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version": 9}`), 0o600))
	_, err = New(future).Load("V")
	assert.ErrorIs(t, err, common.ErrFutureSchemaVersion)

	_, err = New(dir).Load("V")
	assert.Error(t, err, "a directory is not readable as a file")
}
