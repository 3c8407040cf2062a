// Package commands implements the receipt-keeping commands and the
// lifecycle that drives them.
//
// Every command goes through Validate, Start, Execute, an optional persist
// and Finish, in that order (see Lifecycle). Execute never returns an
// error: failures reported by the remote service are recorded in the
// document and in the command's tally instead.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/glacierkeep/internal/common"
	"github.com/dmitrijs2005/glacierkeep/internal/glacier"
	"github.com/dmitrijs2005/glacierkeep/internal/logging"
	"github.com/dmitrijs2005/glacierkeep/internal/receipts"
)

// Command is one receipt-keeping operation.
type Command interface {
	// Name returns the command word, e.g. "upload".
	Name() string
	// Validate checks positional arguments and required options.
	Validate() error
	// Start prints the start banner.
	Start(ctx context.Context)
	// Execute runs the command against the store and the remote service.
	Execute(ctx context.Context)
	// Persist reports whether Execute changed state worth saving.
	Persist() bool
	// Finish prints the summary banner.
	Finish(ctx context.Context)
}

// Options are the per-invocation settings shared by all commands.
type Options struct {
	Vault      string
	Collection string
	Force      bool
	Args       []string
}

// Env holds the collaborators a command works with.
type Env struct {
	Store   *receipts.Store
	Service glacier.Service
	Outputs OutputSink
	Log     logging.Logger
	Out     io.Writer
	Now     func() time.Time
}

func (e Env) withDefaults() Env {
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Log == nil {
		e.Log = logging.Discard()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Outputs == nil {
		e.Outputs = DiscardSink{}
	}
	return e
}

func (e Env) printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format, args...)
}

func (e Env) stamp() string {
	return e.Now().Format("2006-01-02 15:04:05 -0700")
}

// Names lists the supported command words in help order.
var Names = []string{"upload", "list", "delete", "inventory", "jobs"}

// Descriptions holds one-line help text per command word.
var Descriptions = map[string]string{
	"upload":    "Upload files as a named collection, appending to an existing collection",
	"list":      "List file information for a named collection, or list all collections",
	"delete":    "Delete all Glacier archive files in named collection",
	"inventory": "Request an async Glacier inventory job for a given vault",
	"jobs":      "Check completion of async Glacier jobs and write available results to an output file",
}

// New returns the command registered under name.
func New(name string, opts Options, env Env) (Command, error) {
	env = env.withDefaults()
	switch name {
	case "upload":
		return NewUpload(opts, env), nil
	case "list":
		return NewList(opts, env), nil
	case "delete":
		return NewDelete(opts, env), nil
	case "inventory":
		return NewInventory(opts, env), nil
	case "jobs":
		return NewJobs(opts, env), nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownCommand, name)
	}
}

// randomCollectionName names an upload collection when none was given.
var randomCollectionName = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
