package config

import (
	"bytes"
	"flag"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "glacier_receipts.json", c.ReceiptsFile)
	assert.Equal(t, "corbuntu_archive", c.Vault)
	assert.Equal(t, "us-east-1", c.Region)
	assert.Equal(t, ".", c.OutputDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.Collection)
	assert.False(t, c.DryRun)
}

func TestLoad_FlagsAroundCommand(t *testing.T) {
	inv, err := Load([]string{"-v", "cold", "upload", "-n", "photos", "a.jpg", "-f", "b.jpg", "--dry_run"})
	require.NoError(t, err)

	want := defaults()
	want.Vault = "cold"
	want.Collection = "photos"
	want.Force = true
	want.DryRun = true

	assert.Empty(t, cmp.Diff(&want, inv.Config))
	assert.Equal(t, "upload", inv.Command)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, inv.Args)
}

func TestLoad_JSONThenFlags(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"vault_name":    "from-json",
		"receipts_file": "json_receipts.json",
		"region":        "eu-west-1",
	})

	inv, err := Load([]string{"list", "-c", path, "-v", "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", inv.Config.Vault)
	assert.Equal(t, "json_receipts.json", inv.Config.ReceiptsFile)
	assert.Equal(t, "eu-west-1", inv.Config.Region)
	assert.Equal(t, "list", inv.Command)
	assert.Empty(t, inv.Args)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(nil)
	assert.ErrorIs(t, err, common.ErrUsage)

	_, err = Load([]string{"upload", "-bogus"})
	assert.ErrorIs(t, err, common.ErrUsage)

	_, err = Load([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.NotErrorIs(t, err, common.ErrUsage)

	_, err = Load([]string{"list", "-c", "/does/not/exist.json"})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	c := defaults()
	assert.NoError(t, c.Validate())

	c.Vault = ""
	assert.ErrorIs(t, c.Validate(), common.ErrUsage)

	c = defaults()
	c.AccessKeyID = "AKIA"
	assert.Error(t, c.Validate())

	c.SecretAccessKey = "secret"
	assert.NoError(t, c.Validate())
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)

	out := buf.String()
	assert.Contains(t, out, "Usage: glacierkeep")
	assert.Contains(t, out, "-vault_name")
	assert.Contains(t, out, "corbuntu_archive")
}
