package config

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/flagx"
)

// Config holds runtime settings for glacierkeep.
type Config struct {
	ReceiptsFile    string
	Collection      string
	Vault           string
	DryRun          bool
	Force           bool
	TestDebug       bool
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	OutputDir       string
	LogLevel        string
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.ReceiptsFile = common.DefaultReceiptsFile
	c.Collection = ""
	c.Vault = common.DefaultVault
	c.DryRun = false
	c.Force = false
	c.TestDebug = false
	c.Region = common.DefaultRegion
	c.Endpoint = ""
	c.OutputDir = "."
	c.LogLevel = "info"
}

// Invocation is a parsed command line.
type Invocation struct {
	Config  *Config
	Command string
	Args    []string
}

// Load builds a Config from defaults, the optional JSON file and the flags
// in args (os.Args[1:]). The first positional argument is the command word.
//
// flag.ErrHelp is returned unwrapped when -h was given. Any other flag
// error, and a missing command word, wraps common.ErrUsage.
func Load(args []string) (*Invocation, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}

	positional, err := parseFlags(cfg, args)
	if err != nil {
		return nil, err
	}
	if len(positional) == 0 {
		return nil, fmt.Errorf("%w: no command given", common.ErrUsage)
	}

	return &Invocation{Config: cfg, Command: positional[0], Args: positional[1:]}, nil
}

// Validate checks settings that no flag parser can catch.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return fmt.Errorf("%w: vault name must not be empty", common.ErrUsage)
	}
	if c.ReceiptsFile == "" {
		return fmt.Errorf("%w: receipts file must not be empty", common.ErrUsage)
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return errors.New("access_key_id and secret_access_key must be set together")
	}
	return nil
}
