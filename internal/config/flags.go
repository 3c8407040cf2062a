package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/flagx"
)

// newFlagSet binds every flag to cfg. Each setting has a short and a long
// name sharing one variable; the current cfg values are the defaults.
func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("glacierkeep", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	strVar := func(p *string, short, long, usage string) {
		if short != "" {
			fs.StringVar(p, short, *p, usage)
		}
		fs.StringVar(p, long, *p, usage)
	}
	boolVar := func(p *bool, short, long, usage string) {
		fs.BoolVar(p, short, *p, usage)
		fs.BoolVar(p, long, *p, usage)
	}

	var ignored string
	strVar(&ignored, "c", "config", "path to JSON config file")

	strVar(&cfg.ReceiptsFile, "r", "receipts_file", "receipts file name")
	strVar(&cfg.Collection, "n", "collection_name", "collection name")
	strVar(&cfg.Vault, "v", "vault_name", "Glacier vault name")
	boolVar(&cfg.DryRun, "d", "dry_run", "show what would be done without doing it")
	boolVar(&cfg.Force, "f", "force", "force overwriting of existing archive receipts")
	boolVar(&cfg.TestDebug, "t", "test_debug", "use the stub Glacier service")
	strVar(&cfg.Region, "", "region", "AWS region")
	strVar(&cfg.Endpoint, "", "endpoint", "Glacier endpoint URL override")
	strVar(&cfg.OutputDir, "", "output_dir", "directory for job output files")
	strVar(&cfg.LogLevel, "", "log_level", "log level: debug, info, warn or error")

	return fs
}

// parseFlags overlays cfg with the flags in args and returns the positional
// arguments in order.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := newFlagSet(cfg)
	positional, err := flagx.ParseInterleaved(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUsage, err)
	}
	return positional, nil
}

// PrintUsage writes the flag summary to w.
func PrintUsage(w io.Writer) {
	var cfg Config
	cfg.LoadDefaults()
	fs := newFlagSet(&cfg)
	fs.SetOutput(w)
	fmt.Fprintln(w, "Usage: glacierkeep [options] <command> [files...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
}
