// Package app wires configuration, the receipt file, the Glacier service
// and the commands together, and maps the outcome of a run to an exit
// code.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/glacierkeep/internal/commands"
	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/config"
	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/logging"
	"github.com/dmitrijs2005/glacierkeep/internal/receiptfile"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// newAWSService builds the real Glacier service. Tests replace it.
var newAWSService = func(ctx context.Context, c glacier.AWSConfig) (glacier.Service, error) {
	return glacier.NewAWSServiceFromConfig(ctx, c)
}

type App struct {
	config  *config.Config
	command string
	args    []string
	logger  logging.Logger
	stdout  io.Writer
	file    *receiptfile.File
	store   *receipts.Store
	service glacier.Service
	outputs commands.OutputSink
}

// NewApp loads the receipt file named in inv and selects the service and
// output sink for the run. Load and migration failures are returned as is.
func NewApp(ctx context.Context, inv *config.Invocation, stdout, stderr io.Writer) (*App, error) {
	c := inv.Config

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUsage, err)
	}
	logger := logging.New(stderr, level)

	file := receiptfile.New(c.ReceiptsFile)
	res, err := file.Load(c.Vault)
	if err != nil {
		return nil, err
	}
	if res.Migrated {
		logger.Info(ctx, fmt.Sprintf("converting receipts file from version %d", res.FromVersion),
			"file", c.ReceiptsFile, "to_version", receipts.CurrentVersion)
	}

	var service glacier.Service
	if c.DryRun || c.TestDebug {
		service = glacier.NewStubService(logger)
	} else {
		service, err = newAWSService(ctx, glacier.AWSConfig{
			Region:          c.Region,
			Endpoint:        c.Endpoint,
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("glacier client init error: %w", err)
		}
	}

	var outputs commands.OutputSink = commands.DirSink{Dir: c.OutputDir}
	if c.DryRun {
		outputs = commands.DiscardSink{}
	}

	return &App{
		config:  c,
		command: inv.Command,
		args:    inv.Args,
		logger:  logger,
		stdout:  stdout,
		file:    file,
		store:   receipts.NewStore(res.Document),
		service: service,
		outputs: outputs,
	}, nil
}

// Run executes the selected command through the lifecycle.
func (a *App) Run(ctx context.Context) error {
	cmd, err := commands.New(a.command, commands.Options{
		Vault:      a.config.Vault,
		Collection: a.config.Collection,
		Force:      a.config.Force,
		Args:       a.args,
	}, commands.Env{
		Store:   a.store,
		Service: a.service,
		Outputs: a.outputs,
		Log:     a.logger,
		Out:     a.stdout,
	})
	if err != nil {
		return err
	}

	lc := &commands.Lifecycle{
		Store:     a.store,
		Persister: a.file,
		DryRun:    a.config.DryRun,
		Log:       a.logger,
		Out:       a.stdout,
	}
	_, err = lc.Run(ctx, cmd)
	return err
}

// Main runs glacierkeep with args (os.Args[1:]) and returns the process
// exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	inv, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		printHelp(stdout)
		return ExitOK
	}
	if err == nil {
		err = inv.Config.Validate()
	}
	if err == nil {
		if _, ok := commands.Descriptions[inv.Command]; !ok {
			err = fmt.Errorf("%w: %q", common.ErrUnknownCommand, inv.Command)
		}
	}
	if err != nil {
		return fail(stderr, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := NewApp(ctx, inv, stdout, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	if err := a.Run(ctx); err != nil {
		return fail(stderr, err)
	}
	return ExitOK
}

func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "glacierkeep: %v\n", err)
	if errors.Is(err, common.ErrUsage) || errors.Is(err, common.ErrUnknownCommand) {
		fmt.Fprintln(w)
		printHelp(w)
		return ExitUsage
	}
	return ExitFailure
}

func printHelp(w io.Writer) {
	config.PrintUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commands.Names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands.Descriptions[name])
	}
}
