package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/graftql/graft/pkg/config"
	"github.com/graftql/graft/pkg/sources"
	"github.com/graftql/graft/pkg/telemetry"
)

type sourcesOptions struct {
	extensions []string
	project    string
}

// sourceSetReport is one entry of the --json output of the sources command.
type sourceSetReport struct {
	SourceSet config.SourceSetName `json:"source_set"`
	Files     []string             `json:"files"`
}

func newSourcesCommand(opts *globalOptions) *cobra.Command {
	sopts := &sourcesOptions{}

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List source files grouped by source set",
		Long: `List the files found below the configured source directories.

Each file belongs to the source set of the deepest source directory that
contains it. Blacklisted files and generated directories are skipped.`,
		Example: `  # List every source file
  graft sources

  # Only JavaScript files of the source sets used by one project
  graft sources --ext .js --project web`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := opts.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			ctx, span := opts.tel.Tracer.StartSpan(ctx, "sources.discover")
			defer span.End()

			var sets map[config.SourceSetName]bool
			if sopts.project != "" {
				name := config.ProjectName(sopts.project)
				project, ok := cfg.Project(name)
				if !ok {
					err := fmt.Errorf("unknown project %q", sopts.project)
					telemetry.RecordError(span, err)
					return err
				}
				sets = map[config.SourceSetName]bool{name.AsSourceSetName(): true}
				for _, base := range project.Base {
					sets[base] = true
				}
			}

			files, err := sources.Discover(ctx, cfg, sources.DiscoverOptions{Extensions: sopts.extensions})
			if err != nil {
				telemetry.RecordError(span, err)
				return err
			}

			groups := sources.GroupBySourceSet(files)
			names := make([]config.SourceSetName, 0, len(groups))
			for name := range groups {
				if sets != nil && !sets[name] {
					continue
				}
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

			report := make([]sourceSetReport, 0, len(names))
			total := 0
			for _, name := range names {
				entry := sourceSetReport{SourceSet: name}
				for _, f := range groups[name] {
					entry.Files = append(entry.Files, f.Path)
				}
				total += len(entry.Files)
				report = append(report, entry)
			}

			span.SetAttributes(telemetry.AttrSourceFiles.Int(total))
			telemetry.RecordSuccess(span)
			log.Debug().Int("files", total).Int("source_sets", len(report)).Msg("Listed sources")

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printSourcesReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sopts.extensions, "ext", nil, "only list files with these extensions")
	cmd.Flags().StringVarP(&sopts.project, "project", "p", "", "only list source sets used by this project")

	return cmd
}

func printSourcesReport(w io.Writer, report []sourceSetReport) {
	if len(report) == 0 {
		fmt.Fprintln(w, "No source files found")
		return
	}
	for _, entry := range report {
		fmt.Fprintf(w, "%s (%d)\n", entry.SourceSet, len(entry.Files))
		for _, f := range entry.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}
