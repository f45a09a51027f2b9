package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/intersection"
	"github.com/SmitUplenchwar2687/Replica/internal/playback"
)

// puppet is the replay-side stand-in the CLI spawns for every actor. It
// keeps the last pose it was given.
type puppet struct {
	handle   actor.Handle
	pos, rot mgl64.Vec3
	updates  int
	log      *logrus.Logger
}

func (p *puppet) SetTransform(pos, rot mgl64.Vec3) {
	p.pos, p.rot = pos, rot
	p.updates++
	p.log.WithFields(logrus.Fields{
		"actor": p.handle.ID,
		"pos":   pos,
		"rot":   rot,
	}).Trace("actor moved")
}

type puppetState struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Updates  int        `json:"updates"`
}

type replayResult struct {
	Summary *playback.Summary `json:"summary"`
	Actors  []puppetState     `json:"actors"`
	Lights  map[string]string `json:"lights"`
}

func newReplayCmd(a *app) *cobra.Command {
	var (
		src        sourceOptions
		speed      float64
		events     []string
		after      float64
		before     float64
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recording",
		Long: `Replays a saved XML recording onto stand-in actors and redelivers its
events. "Traffic Light Change" events drive a crossroads controller, so
the final signal state matches the recorded session.

Speed: 0 = instant, 1 = real-time, 10 = 10x`,
		Example: `  replica replay --file Recordings/PedSimCity_P01_Run1.xml
  replica replay --name PedSimCity_P01_Run1 --speed 10
  replica replay --file run.xml --speed 0 --events "Traffic Light Change" --json
  replica replay --file run.xml --after 5 --before 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("speed") {
				speed = a.cfg.Playback.Speed
			}
			if speed < 0 {
				return fmt.Errorf("--speed must not be negative, got %v", speed)
			}

			rec, err := src.load(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}

			var puppets []*puppet
			spawner := playback.SpawnerFunc(func(h actor.Handle) (playback.Representation, error) {
				p := &puppet{handle: h, log: a.log}
				puppets = append(puppets, p)
				return p, nil
			})

			var ns, ew []*intersection.StopLight
			for _, name := range []string{"north", "south"} {
				ns = append(ns, intersection.NewStopLight(name, intersection.Red))
			}
			for _, name := range []string{"east", "west"} {
				ew = append(ew, intersection.NewStopLight(name, intersection.Red))
			}
			lights := intersection.NewController(ns, ew, a.log)

			d, err := playback.New(rec, spawner,
				playback.WithFilter(playback.Filter{Events: events, After: after, Before: before}),
				playback.WithLogger(a.log),
				playback.OnAdvance(lights.Update),
			)
			if err != nil {
				return err
			}
			d.Handle(intersection.EventName, lights)

			out := cmd.OutOrStdout()
			if !outputJSON {
				fmt.Fprintf(out, "Replaying %s (%d actors) at %gx speed...\n\n", rec.Name, len(rec.ActorIDs), speed)
			}

			summary, err := d.Run(cmd.Context(), clock.NewRealClock(), speed, func(s playback.Step) {
				if outputJSON || s.Events+s.Dropped == 0 {
					return
				}
				fmt.Fprintf(out, "  [%8.3fs] %d event(s) delivered, %d dropped\n", s.Time, s.Events, s.Dropped)
			})
			if err != nil {
				return err
			}

			res := replayResult{Summary: summary, Lights: make(map[string]string)}
			for _, p := range puppets {
				res.Actors = append(res.Actors, puppetState{
					ID: p.handle.ID, Name: p.handle.Name,
					Position: p.pos, Rotation: p.rot, Updates: p.updates,
				})
			}
			for _, l := range append(ns, ew...) {
				res.Lights[l.Name] = l.Color().String()
			}

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "--- Replay Summary ---")
			fmt.Fprintf(out, "  Frames:         %d/%d\n", summary.Frames, summary.TotalFrames)
			fmt.Fprintf(out, "  Events:         %d/%d (%d dropped)\n", summary.Events, summary.TotalEvents, summary.Dropped)
			fmt.Fprintf(out, "  Suppressed:     %d\n", summary.Suppressed)
			fmt.Fprintf(out, "  Recorded time:  %s\n", summary.Duration)
			fmt.Fprintf(out, "  Wall time:      %s\n", summary.WallDuration.Round(time.Millisecond))
			fmt.Fprintln(out)
			for _, s := range res.Actors {
				fmt.Fprintf(out, "  %3d %-12s pos=%v\n", s.ID, s.Name, s.Position)
			}
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().Float64Var(&speed, "speed", 1, "replay speed (0=instant, 1=real-time, 10=10x)")
	cmd.Flags().StringSliceVar(&events, "events", nil, "only deliver these event names")
	cmd.Flags().Float64Var(&after, "after", 0, "skip everything before this recording time in seconds")
	cmd.Flags().Float64Var(&before, "before", 0, "skip everything from this recording time in seconds")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")

	return cmd
}
