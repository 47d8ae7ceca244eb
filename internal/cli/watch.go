package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/goerbfmt/internal/logging"
	"github.com/yaklabco/goerbfmt/internal/watcher"
	"github.com/yaklabco/goerbfmt/pkg/format"
	"github.com/yaklabco/goerbfmt/pkg/fsutil"
	"github.com/yaklabco/goerbfmt/pkg/runner"
)

func newWatchCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Watch templates and re-format on change",
		Long: `Watch directories for template changes and rewrite changed files in
place as they are saved. Intended for development loops; press Ctrl-C
to stop.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.backups, "backups", false, "create sidecar backups before rewriting")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *formatFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	finalCfg, warnings, err := loadConfig(ctx, cmd, flags, workDir)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		logger.Warn(warning)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{workDir}
	}

	w, err := watcher.New(watcher.DefaultConfig(runner.DefaultExtensions()), paths)
	if err != nil {
		return errors.Join(errors.New("failed to start watcher"), err)
	}
	defer func() { _ = w.Stop() }()

	formatter := format.New(finalCfg)
	logger.Info("watching for template changes", logging.FieldPaths, paths)

	changes := w.Start()
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case path := <-changes:
			formatChangedFile(ctx, formatter, path, flags.backups, logger)
		}
	}
}

// formatChangedFile rewrites one file in place, skipping rewrites that
// would be unsafe or unnecessary.
func formatChangedFile(ctx context.Context, formatter *format.Formatter, path string, backups bool, logger *log.Logger) {
	content, mode, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		logger.Error("read failed", logging.FieldPath, path, logging.FieldError, err)
		return
	}

	result, err := formatter.Format(ctx, content)
	if err != nil {
		logger.Error("format failed", logging.FieldPath, path, logging.FieldError, err)
		return
	}
	if result.HasErrors() {
		for _, d := range result.Diagnostics {
			logger.Warn(d.Message, logging.FieldPath, path)
		}
		return
	}
	if !result.Changed(content) {
		return
	}

	if backups {
		if _, err := fsutil.CreateBackup(ctx, path); err != nil {
			logger.Error("backup failed", logging.FieldPath, path, logging.FieldError, err)
			return
		}
	}
	if _, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(result.Output), mode); err != nil {
		logger.Error("write failed", logging.FieldPath, path, logging.FieldError, err)
		return
	}
	logger.Info("formatted", logging.FieldPath, path)
}
