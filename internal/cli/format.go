package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/goerbfmt/internal/configloader"
	"github.com/yaklabco/goerbfmt/internal/logging"
	"github.com/yaklabco/goerbfmt/internal/ui/pretty"
	"github.com/yaklabco/goerbfmt/pkg/config"
	"github.com/yaklabco/goerbfmt/pkg/format"
	"github.com/yaklabco/goerbfmt/pkg/reporter"
	"github.com/yaklabco/goerbfmt/pkg/runner"
)

// ErrIssuesFound signals a non-zero exit without an error message.
var ErrIssuesFound = errors.New("formatting issues found")

type formatFlags struct {
	write    bool
	check    bool
	diff     bool
	format   string
	jobs     int
	ignore   []string
	backups  bool
	debugOut bool

	// Config overrides.
	indentSize   int
	indentStyle  string
	lineWidth    int
	attrWrapping string
	newline      string
	rubyFormat   string
}

func newFormatCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format ERB templates",
		Long:  formatLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags)
		},
	}

	addFormatFlags(cmd, flags)
	return cmd
}

const formatLongDescription = `Format ERB template files.

By default, formats all .erb and .rhtml files in the current directory
and subdirectories and prints the result to stdout. Specify paths to
format specific files or directories.

Examples:
  goerbfmt format app/views/user.html.erb   # Print formatted template
  goerbfmt format --write app/views/        # Rewrite files in place
  goerbfmt format --check .                 # Exit non-zero if unformatted
  goerbfmt format --diff .                  # Show what would change
  goerbfmt format --format json .           # Machine-readable outcome`

func runFormat(cmd *cobra.Command, args []string, flags *formatFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

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

	mode := runner.WriteStdout
	switch {
	case flags.check:
		mode = runner.WriteCheck
	case flags.write:
		mode = runner.WriteInPlace
	}

	outputFormat := flags.format
	if flags.diff && outputFormat == "text" {
		outputFormat = "diff"
	}

	formatter := format.New(finalCfg, format.WithDebug(flags.debugOut))
	formatRunner := runner.New(formatter)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: flags.ignore,
		Jobs:         flags.jobs,
		Mode:         mode,
		Backups:      flags.backups,
	}

	logger.Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldWrite, flags.write,
		logging.FieldCheck, flags.check,
	)

	result, err := formatRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	logger.Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesWritten, result.Stats.FilesWritten,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	if mode == runner.WriteStdout && outputFormat == "text" {
		if err := printOutputs(cmd, result, colorMode); err != nil {
			return err
		}
	} else {
		repFormat, err := reporter.ParseFormat(outputFormat)
		if err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
		rep, err := reporter.New(reporter.Options{
			Writer:      cmd.OutOrStdout(),
			ErrorWriter: cmd.ErrOrStderr(),
			Format:      repFormat,
			Color:       colorMode,
			ShowSummary: true,
			WorkingDir:  workDir,
		})
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if _, err := rep.Report(ctx, result); err != nil {
			logger.Error("report failed", logging.FieldError, err)
			return fmt.Errorf("report results: %w", err)
		}
	}

	if ExitCodeFromResult(result, flags.check) != ExitSuccess {
		return ErrIssuesFound
	}
	return nil
}

// printOutputs writes formatted templates to stdout, with file headers
// when more than one file goes to a terminal.
func printOutputs(cmd *cobra.Command, result *runner.Result, colorMode string) error {
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	withHeaders := len(result.Files) > 1 && isTerminal(out)
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", file.Path, file.Error)
			continue
		}
		if file.Result == nil {
			continue
		}
		if withHeaders {
			fmt.Fprintln(out, styles.Dim.Render("==> "+file.Path+" <=="))
		}
		for _, diag := range file.Result.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", file.Path, diag.Severity, diag.Message)
		}
		if _, err := fmt.Fprint(out, file.Result.Output); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// loadConfig resolves the final configuration from files, environment,
// and CLI flags.
func loadConfig(ctx context.Context, cmd *cobra.Command, flags *formatFlags, workDir string) (*config.Config, []string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIOverlay:   overlayFromFlags(cmd, flags),
	})
	if err != nil {
		return nil, nil, errors.Join(errors.New("failed to load configuration"), err)
	}
	return loadResult.Config, loadResult.Warnings, nil
}

// overlayFromFlags builds a config overlay from flags the user
// actually set.
func overlayFromFlags(cmd *cobra.Command, flags *formatFlags) *config.Overlay {
	o := &config.Overlay{}
	if cmd.Flags().Changed("indent-size") {
		o.Indentation.Size = &flags.indentSize
	}
	if cmd.Flags().Changed("indent-style") {
		o.Indentation.Style = &flags.indentStyle
	}
	if cmd.Flags().Changed("line-width") {
		o.HTML.LineWidth = &flags.lineWidth
	}
	if cmd.Flags().Changed("attribute-wrapping") {
		o.HTML.AttributeWrapping = &flags.attrWrapping
	}
	if cmd.Flags().Changed("newline") {
		o.Newline = &flags.newline
	}
	if cmd.Flags().Changed("ruby-format") {
		o.Ruby.Format = &flags.rubyFormat
	}
	return o
}

func addFormatFlags(cmd *cobra.Command, flags *formatFlags) {
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit non-zero when files need formatting")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "report changes as diffs (same as --format diff)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.backups, "backups", false, "create sidecar backups before rewriting")
	cmd.Flags().BoolVar(&flags.debugOut, "debug-placeholders", false, "attach placeholder document to results")

	cmd.Flags().IntVar(&flags.indentSize, "indent-size", 2, "indentation size")
	cmd.Flags().StringVar(&flags.indentStyle, "indent-style", "space", "indentation style: space, tab")
	cmd.Flags().IntVar(&flags.lineWidth, "line-width", 100, "target line width (0 disables)")
	cmd.Flags().StringVar(&flags.attrWrapping, "attribute-wrapping", "preserve",
		"attribute wrapping: preserve, auto, force-multi-line")
	cmd.Flags().StringVar(&flags.newline, "newline", "lf", "line terminator: lf, crlf, preserve")
	cmd.Flags().StringVar(&flags.rubyFormat, "ruby-format", "heuristic",
		"embedded Ruby handling: heuristic, none")
}
