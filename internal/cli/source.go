package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/export"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// sourceOptions picks the recording a read-only command works on: a file
// on disk, or a name in the configured archive.
type sourceOptions struct {
	file    string
	name    string
	archive archiveOptions
}

func (o *sourceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.file, "file", "", "path to a recording XML file")
	cmd.Flags().StringVar(&o.name, "name", "", "recording name in the configured archive")
	cmd.MarkFlagsMutuallyExclusive("file", "name")
	o.archive.addFlags(cmd)
}

func (o *sourceOptions) load(ctx context.Context, cmd *cobra.Command, a *app) (*recording.Recording, error) {
	if o.file == "" && o.name == "" {
		return nil, fmt.Errorf("--file or --name is required")
	}
	if err := o.archive.resolve(cmd, a); err != nil {
		return nil, err
	}

	if o.file != "" {
		return export.Load(ctx, archive.NewDir(filepath.Dir(o.file)), filepath.Base(o.file))
	}

	arc, closeArchive, err := openArchive(a.cfg.Archive, clock.NewRealClock(), a.log)
	if err != nil {
		return nil, err
	}
	defer closeArchive()
	return export.Load(ctx, arc, o.name)
}
