package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

type eventCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type recordingInfo struct {
	Name     string       `json:"name" yaml:"name"`
	FPS      float64      `json:"fps" yaml:"fps"`
	Frames   int          `json:"frames" yaml:"frames"`
	Start    float64      `json:"start" yaml:"start"`
	End      float64      `json:"end" yaml:"end"`
	Duration float64      `json:"duration_seconds" yaml:"duration_seconds"`
	Actors   []actorInfo  `json:"actors" yaml:"actors"`
	Events   []eventCount `json:"events" yaml:"events"`
}

type actorInfo struct {
	ID             int    `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Representation string `json:"representation" yaml:"representation"`
	Missing        int    `json:"missing_frames" yaml:"missing_frames"`
}

func describe(rec *recording.Recording) recordingInfo {
	info := recordingInfo{
		Name:     rec.Name,
		FPS:      rec.FPS,
		Frames:   len(rec.Frames),
		Duration: rec.Duration(),
	}
	if n := len(rec.Frames); n > 0 {
		info.Start = rec.Frames[0].Timestamp
		info.End = rec.Frames[n-1].Timestamp
	}

	for _, h := range rec.Handles() {
		ai := actorInfo{ID: h.ID, Name: h.Name, Representation: h.Representation}
		for _, f := range rec.Frames {
			if pos, _ := f.PositionOf(h.ID); recording.IsSentinel(pos) {
				ai.Missing++
			}
		}
		info.Actors = append(info.Actors, ai)
	}

	counts := make(map[string]int)
	for _, e := range rec.Events {
		counts[e.Name]++
	}
	for name, n := range counts {
		info.Events = append(info.Events, eventCount{Name: name, Count: n})
	}
	sort.Slice(info.Events, func(i, j int) bool {
		return info.Events[i].Name < info.Events[j].Name
	})
	return info
}

func newInspectCmd(a *app) *cobra.Command {
	var (
		src        sourceOptions
		outputJSON bool
		outputYAML bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarise a recording",
		Example: `  replica inspect --file Recordings/run.xml
  replica inspect --name run --yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := src.load(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			info := describe(rec)
			out := cmd.OutOrStdout()

			switch {
			case outputJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case outputYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(info); err != nil {
					return err
				}
				return enc.Close()
			}

			fmt.Fprintf(out, "Recording %s\n", info.Name)
			fmt.Fprintf(out, "  FPS:       %g\n", info.FPS)
			fmt.Fprintf(out, "  Frames:    %d (%.3fs to %.3fs)\n", info.Frames, info.Start, info.End)
			fmt.Fprintf(out, "  Duration:  %.3fs\n", info.Duration)
			fmt.Fprintf(out, "  Actors:    %d\n", len(info.Actors))
			for _, ai := range info.Actors {
				fmt.Fprintf(out, "    %3d %-16s %-24s missing in %d frames\n", ai.ID, ai.Name, ai.Representation, ai.Missing)
			}
			fmt.Fprintf(out, "  Events:    %d\n", len(rec.Events))
			for _, ec := range info.Events {
				fmt.Fprintf(out, "    %-24s x%d\n", ec.Name, ec.Count)
			}
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&outputYAML, "yaml", false, "output as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}
