package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goerbfmt/internal/logging"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// defaultConfigName is the project config file created by init.
const defaultConfigName = ".goerbfmt.yml"

type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new goerbfmt configuration file",
		Long: `Create a new .goerbfmt.yml configuration file in the current
directory with the default settings documented. The file can be
customized to change indentation, line widths, and wrapping behavior.

Examples:
  goerbfmt init                     Create .goerbfmt.yml
  goerbfmt init --output custom.yml Write to a custom file path`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .goerbfmt.yml)")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigName
	}

	if !flags.force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("%s already exists; use --force to overwrite", outputPath)
		}
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), configFilePermissions); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	return nil
}

const configTemplate = `# goerbfmt configuration
# All settings are optional; absent settings use the defaults shown.

indentation:
  size: 2
  style: space        # space | tab
  continuation: 2

newline: lf           # lf | crlf | preserve

whitespace:
  trim_trailing: true
  ensure_final_newline: true

html:
  collapse_whitespace: conservative   # preserve | conservative | aggressive
  line_width: 100                     # 0 disables width checks
  attribute_wrapping: preserve        # preserve | auto | force-multi-line

ruby:
  format: heuristic   # heuristic | none
  line_width: 100
`
