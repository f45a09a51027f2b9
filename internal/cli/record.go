package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/export"
	"github.com/SmitUplenchwar2687/Replica/internal/intersection"
	"github.com/SmitUplenchwar2687/Replica/internal/recorder"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
	"github.com/SmitUplenchwar2687/Replica/internal/scene"
)

type recordOptions struct {
	name     string
	duration time.Duration
	tickRate float64
	fps      float64
	formats  []string
	cycle    time.Duration
	pauseAt  time.Duration
	pauseFor time.Duration
	trash    bool
	archive  archiveOptions
}

func newRecordCmd(a *app) *cobra.Command {
	var o recordOptions

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the synthetic city scene",
		Long: `Drives the built-in crossroads scene on a virtual clock and records it.

Four vehicles cross the intersection at 30 mph and are destroyed at the
edge of the map, and a participant waits at the kerb. The traffic lights
toggle on a fixed cycle and every change is logged as a
"Traffic Light Change" event. The session runs as fast as the machine
allows; --duration is simulated time.`,
		Example: `  replica record --name PedSimCity_P01_Run1
  replica record --duration 1m --fps 90 --format xml
  replica record --pause-at 5s --pause-for 3s --archive-dir /data/recordings
  replica record --archive redis --redis-host redis.lab:6379`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, a, &o)
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "recording name (default: generated)")
	cmd.Flags().DurationVar(&o.duration, "duration", 20*time.Second, "simulated session length")
	cmd.Flags().Float64Var(&o.tickRate, "tick-rate", 90, "simulation steps per second")
	cmd.Flags().Float64Var(&o.fps, "fps", recording.DefaultFPS, "capture rate in frames per second (1-1000)")
	cmd.Flags().StringSliceVar(&o.formats, "format", []string{"xml", "csv"}, "formats to save (xml, csv)")
	cmd.Flags().DurationVar(&o.cycle, "cycle", 6*time.Second, "traffic light toggle period (0 = lights never change)")
	cmd.Flags().DurationVar(&o.pauseAt, "pause-at", 0, "pause the recording at this simulated time")
	cmd.Flags().DurationVar(&o.pauseFor, "pause-for", 0, "how long to stay paused")
	cmd.Flags().BoolVar(&o.trash, "trash", false, "discard the recording instead of saving it")
	o.archive.addFlags(cmd)

	return cmd
}

func (o *recordOptions) resolve(cmd *cobra.Command, a *app) error {
	rc := &a.cfg.Recorder
	if cmd.Flags().Changed("name") || rc.Name == "" {
		rc.Name = o.name
	}
	if rc.Name == "" {
		rc.Name = "session-" + uuid.NewString()[:8]
	}
	if cmd.Flags().Changed("fps") {
		rc.FPS = o.fps
	}
	if cmd.Flags().Changed("format") {
		fs, err := recording.ParseFormats(o.formats)
		if err != nil {
			return err
		}
		rc.Formats = fs
	}
	if o.tickRate <= 0 {
		return fmt.Errorf("--tick-rate must be positive, got %v", o.tickRate)
	}
	if o.duration <= 0 {
		return fmt.Errorf("--duration must be positive, got %s", o.duration)
	}
	return o.archive.resolve(cmd, a)
}

func runRecord(cmd *cobra.Command, a *app, o *recordOptions) (err error) {
	if err := o.resolve(cmd, a); err != nil {
		return err
	}
	rc := a.cfg.Recorder

	vc := clock.NewVirtualClock(time.Now().Truncate(time.Second))

	arc, closeArchive, err := openArchive(a.cfg.Archive, vc, a.log)
	if err != nil {
		return err
	}
	defer closeArchive()

	city, lights := scene.City(a.log)
	svc := recorder.New(city,
		recorder.WithFPS(rc.FPS),
		recorder.WithExporters(export.All(arc, a.log)...),
		recorder.WithAutosaveFormats(rc.AutosaveFormats...),
		recorder.WithLogger(a.log),
		recorder.WithReporter(a.capture),
	)
	defer func() {
		if cerr := svc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("autosave: %w", cerr)
		}
	}()

	var cycle *intersection.Cycle
	if o.cycle > 0 {
		cycle = intersection.DefaultCycle(lights, svc)
		cycle.Period = o.cycle.Seconds()
	}

	if err := svc.Start(rc.Name, vc.Seconds()); err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := simulate(ctx, o, vc, city, lights, cycle, svc); err != nil {
		return err
	}

	// An interrupt still saves what was recorded.
	saveCtx := context.WithoutCancel(ctx)
	out := cmd.OutOrStdout()
	if o.trash {
		rec, err := svc.StopAndTrash()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Discarded %s: %d frames, %d events\n", rec.Name, len(rec.Frames), len(rec.Events))
		return nil
	}

	rec, err := svc.StopAndSave(saveCtx, rc.Formats...)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Recorded %s: %d frames, %d events, %d actors at %v fps\n",
		rec.Name, len(rec.Frames), len(rec.Events), len(rec.ActorIDs), rec.FPS)
	for _, f := range dedupe(rc.Formats) {
		fmt.Fprintf(out, "  saved %s\n", export.FileName(rec.Name, f))
	}
	return nil
}

// simulate steps the scene until the requested duration has elapsed or
// ctx is cancelled.
func simulate(ctx context.Context, o *recordOptions, vc *clock.VirtualClock,
	city *scene.Scene, lights *intersection.Controller, cycle *intersection.Cycle, svc *recorder.Service) error {
	dt := 1 / o.tickRate
	end := o.duration.Seconds()
	pauseAt := o.pauseAt.Seconds()
	resumeAt := (o.pauseAt + o.pauseFor).Seconds()

	for vc.Seconds() < end {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		vc.Step(dt)
		city.Step(dt)
		now := vc.Seconds()

		switch {
		case o.pauseFor > 0 && svc.IsRecording() && now >= pauseAt && now < resumeAt:
			if err := svc.Pause(now); err != nil {
				return err
			}
		case svc.State() == recorder.Paused && now >= resumeAt:
			if err := svc.Resume(now); err != nil {
				return err
			}
		}

		if !svc.IsRecording() {
			lights.Update(now)
			continue
		}
		if cycle != nil {
			if _, err := cycle.Tick(now); err != nil {
				return err
			}
		} else {
			lights.Update(now)
		}
		svc.Tick(now)
	}
	return nil
}

func dedupe(fs []recording.Format) []recording.Format {
	if len(fs) == 0 {
		return []recording.Format{recording.FormatXML}
	}
	seen := make(map[recording.Format]bool, len(fs))
	out := fs[:0:0]
	for _, f := range fs {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
