package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/export"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		src     sourceOptions
		formats []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a recording to other formats",
		Long: `Re-exports a saved XML recording. Use it to produce the CSV table for a
recording that was saved as XML only, or to copy a recording between
archives.`,
		Example: `  replica export --file Recordings/run.xml --format csv
  replica export --name run --archive redis --output ./local --format xml,csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := recording.ParseFormats(formats)
			if err != nil {
				return err
			}

			rec, err := src.load(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}

			var dst archive.Archive
			switch {
			case output != "":
				dst = archive.NewDir(output)
			default:
				arc, closeArchive, err := openArchive(a.cfg.Archive, clock.NewRealClock(), a.log)
				if err != nil {
					return err
				}
				defer closeArchive()
				dst = arc
			}

			exporters := make(map[recording.Format]export.Exporter)
			for _, e := range export.All(dst, a.log) {
				exporters[e.Format()] = e
			}
			for _, f := range dedupe(fs) {
				if err := exporters[f].Export(cmd.Context(), rec); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", export.FileName(rec.Name, f))
			}
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringSliceVar(&formats, "format", []string{"csv"}, "formats to write (xml, csv)")
	cmd.Flags().StringVar(&output, "output", "", "directory to write to (default: the configured archive)")

	return cmd
}
