package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/graftql/graft/pkg/config"
	"github.com/graftql/graft/pkg/telemetry"
)

// validateReport is the --json output of the validate command.
type validateReport struct {
	Config     string                          `json:"config"`
	Root       string                          `json:"root"`
	Valid      bool                            `json:"valid"`
	ErrorKind  config.ErrorKind                `json:"error_kind,omitempty"`
	Error      string                          `json:"error,omitempty"`
	Violations config.ValidationErrors         `json:"violations,omitempty"`
	Projects   []config.ProjectName            `json:"projects,omitempty"`
	Sources    map[string]config.SourceSetName `json:"sources,omitempty"`
}

func newValidateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the compiler configuration",
		Long: `Validate the compiler configuration file.

This command checks:
  - the document decodes (no unknown or missing fields)
  - the root directory exists
  - every source directory exists and is a directory
  - every project has a source directory for its own source set

Every violation is reported, not just the first one.`,
		Example: `  # Validate graft.config.json in the current directory
  graft validate

  # Validate a YAML config for another root
  graft validate --root ./app --config ./app/graft.config.yaml

  # Machine readable report
  graft validate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := opts.loadConfig(cmd.Context())
			logger := telemetry.FromContext(ctx).WithConfigPath(opts.configPath)

			report := validateReport{
				Config: opts.configPath,
				Root:   opts.rootDir,
				Valid:  err == nil,
			}
			if cfg != nil {
				report.Root = cfg.RootDir
				report.Projects = cfg.ProjectNames()
				report.Sources = cfg.Sources
			}
			var cerr *config.Error
			if errors.As(err, &cerr) {
				report.ErrorKind = cerr.Kind
				report.Violations = cerr.ValidationErrors
				if cerr.Kind != config.KindValidation {
					report.Error = err.Error()
				}
			} else if err != nil {
				report.Error = err.Error()
			}

			if opts.jsonOutput {
				if werr := writeJSON(cmd.OutOrStdout(), report); werr != nil {
					return werr
				}
			} else {
				printValidateReport(cmd.OutOrStdout(), report)
			}

			if err != nil {
				logger.WithError(err).
					WithField("violations", len(report.Violations)).
					Warn("Configuration is invalid")
				return err
			}
			logger.WithField("projects", len(report.Projects)).
				WithField("sources", len(report.Sources)).
				Info("Configuration is valid")
			return nil
		},
	}

	return cmd
}

func printValidateReport(w io.Writer, r validateReport) {
	if r.Valid {
		fmt.Fprintf(w, "✓ %s is valid\n", r.Config)
		for _, name := range r.Projects {
			fmt.Fprintf(w, "  project %s\n", name)
		}
		return
	}

	if len(r.Violations) == 0 {
		fmt.Fprintf(w, "✗ %s\n", r.Error)
		return
	}

	fmt.Fprintf(w, "✗ %s has %d problem(s):\n", r.Config, len(r.Violations))
	for _, v := range r.Violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
