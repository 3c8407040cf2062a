package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/glacierkeep/internal/logging"
	"github.com/dmitrijs2005/glacierkeep/internal/migrate"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

func discardLogger() logging.Logger {
	return logging.Discard()
}

func mustCollection(t *testing.T, res *migrate.Result, vault, name string) *receipts.Collection {
	t.Helper()
	c := receipts.NewStore(res.Document).Collection(vault, name, false)
	require.NotNil(t, c, "collection %s/%s missing", vault, name)
	return c
}
