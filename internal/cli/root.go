// Package cli implements flowctl, an offline client that edits the task slot
// directly through the same store the server uses.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/flow/internal/config"
	"github.com/fastygo/flow/pkg/logger"
)

type options struct {
	verbose bool
	driver  string
	path    string
}

type app struct {
	opts   options
	stdout io.Writer
	stderr io.Writer
}

// Execute runs flowctl with args and writes command output to stdout.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "flowctl",
		Short: "flowctl - edit flow tasks from the terminal",
		Long: `flowctl opens the flow task slot directly, applies one command and saves the result.

Stop the flow server first when using the bolt driver; the database file allows one process at a time.
Task and subtask ids may be abbreviated to any unique prefix or suffix, such as the
8 characters shown by list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	root.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	root.PersistentFlags().StringVar(&a.opts.driver, "driver", "", "Storage driver override (bolt, redis, memory)")
	root.PersistentFlags().StringVar(&a.opts.path, "path", "", "BoltDB file override")

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.doneCmd(),
		a.favCmd(),
		a.rmCmd(),
		a.editCmd(),
		a.remindCmd(),
		a.unremindCmd(),
		a.clearCompletedCmd(),
		a.moveCmd(),
		a.subCmd(),
	)
	return root
}

func (a *app) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.opts.driver != "" {
		cfg.Storage.Driver = a.opts.driver
	}
	if a.opts.path != "" {
		cfg.Storage.Path = a.opts.path
	}
	return cfg, cfg.Validate()
}

func (a *app) logger() *zap.Logger {
	level := "warn"
	if a.opts.verbose {
		level = "debug"
	}
	out := a.stderr
	if out == nil {
		out = os.Stderr
	}
	log, err := logger.New(logger.Config{Level: level, Encoding: "console", Output: out})
	if err != nil {
		return zap.NewNop()
	}
	return log
}
