package playback

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type puppet struct {
	pos, rot mgl64.Vec3
	updates  int
}

func (p *puppet) SetTransform(pos, rot mgl64.Vec3) {
	p.pos, p.rot = pos, rot
	p.updates++
}

type stage struct {
	puppets map[int]*puppet
	order   []int
}

func (s *stage) Spawn(h actor.Handle) (Representation, error) {
	if s.puppets == nil {
		s.puppets = make(map[int]*puppet)
	}
	p := &puppet{}
	s.puppets[h.ID] = p
	s.order = append(s.order, h.ID)
	return p, nil
}

func frame(ts float64, a, b mgl64.Vec3) recording.Frame {
	return recording.Frame{
		Timestamp: ts,
		ActorIDs:  []int{1, 2},
		Positions: []mgl64.Vec3{a, b},
		Rotations: []mgl64.Vec3{{0, ts, 0}, {}},
	}
}

func sample() *recording.Recording {
	rec := recording.New("T1", 4, []actor.Handle{
		{ID: 1, Name: "Titan", Representation: "Vehicles/Titan"},
		{ID: 2, Name: "Walker", Representation: "People/Walker"},
	})
	rec.AddFrame(frame(0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{5, 0, 0}))
	rec.AddFrame(frame(0.25, mgl64.Vec3{1, 0, 0}, recording.Sentinel))
	rec.AddFrame(frame(0.5, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{5, 0, 1}))
	rec.LogEvent(0.25, "Traffic Light Change", "north,2,1")
	rec.LogEvent(0.375, "Horn", "")
	return rec
}

type delivered struct {
	name, contents string
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, &stage{}); !errors.Is(err, ErrNoRecording) {
		t.Errorf("New(nil) = %v, want ErrNoRecording", err)
	}
	if _, err := New(sample(), nil); err == nil {
		t.Error("New with nil spawner should fail")
	}

	boom := errors.New("no prefab")
	_, err := New(sample(), SpawnerFunc(func(actor.Handle) (Representation, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Errorf("New with failing spawner = %v, want wrapped spawn error", err)
	}
}

func TestNew_RejectsNonFiniteTimes(t *testing.T) {
	tests := []struct {
		name string
		edit func(*recording.Recording)
	}{
		{"NaN frame", func(r *recording.Recording) { r.Frames[1].Timestamp = math.NaN() }},
		{"infinite frame", func(r *recording.Recording) { r.Frames[2].Timestamp = math.Inf(1) }},
		{"NaN event", func(r *recording.Recording) { r.Events[0].Time = math.NaN() }},
		{"negative infinite event", func(r *recording.Recording) { r.Events[1].Time = math.Inf(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sample()
			tt.edit(rec)
			if _, err := New(rec, &stage{}); !errors.Is(err, ErrBadTimestamp) {
				t.Fatalf("New() error = %v, want ErrBadTimestamp", err)
			}
		})
	}
}

func TestAdvance_NaNAppliesNothing(t *testing.T) {
	st := &stage{}
	var hooked int
	d, err := New(sample(), st, OnAdvance(func(float64) { hooked++ }))
	if err != nil {
		t.Fatal(err)
	}

	step := d.Advance(math.NaN())
	if step.Frames != 0 || step.Events != 0 || hooked != 0 {
		t.Fatalf("Advance(NaN) = %+v, hook calls %d; want nothing applied", step, hooked)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := d.Run(ctx, clock.NewRealClock(), 0, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !d.Done() {
		t.Error("Done() = false after Run")
	}
}

func TestNew_SpawnsRosterInOrder(t *testing.T) {
	st := &stage{}
	d, err := New(sample(), st)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int{1, 2}, st.order); diff != "" {
		t.Errorf("spawn order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, d.ActorIDs()); diff != "" {
		t.Errorf("ActorIDs (-want +got):\n%s", diff)
	}
	if _, ok := d.Representation(2); !ok {
		t.Error("Representation(2) missing")
	}
	if _, ok := d.Representation(3); ok {
		t.Error("Representation(3) should not exist")
	}
}

func TestAdvance_AppliesFramesUpToTime(t *testing.T) {
	st := &stage{}
	d, err := New(sample(), st)
	if err != nil {
		t.Fatal(err)
	}

	step := d.Advance(0)
	if step.Frames != 1 {
		t.Errorf("Advance(0).Frames = %d, want 1", step.Frames)
	}
	if st.puppets[2].pos != (mgl64.Vec3{5, 0, 0}) {
		t.Errorf("walker at %v, want {5 0 0}", st.puppets[2].pos)
	}

	step = d.Advance(0.25)
	if step.Frames != 1 || step.Suppressed != 1 {
		t.Errorf("Advance(0.25) = %+v, want 1 frame 1 suppressed", step)
	}
	// The sentinel leaves the walker where it was.
	if st.puppets[2].pos != (mgl64.Vec3{5, 0, 0}) || st.puppets[2].updates != 1 {
		t.Errorf("walker moved on sentinel: %v after %d updates", st.puppets[2].pos, st.puppets[2].updates)
	}
	if st.puppets[1].pos != (mgl64.Vec3{1, 0, 0}) || st.puppets[1].rot != (mgl64.Vec3{0, 0.25, 0}) {
		t.Errorf("titan = %v %v", st.puppets[1].pos, st.puppets[1].rot)
	}

	if step := d.Advance(0.25); step.Frames != 0 {
		t.Errorf("repeated Advance applied %d frames", step.Frames)
	}
	if d.Done() {
		t.Error("Done() before the last frame")
	}

	step = d.Advance(10)
	if step.Frames != 1 || !d.Done() {
		t.Errorf("Advance(10) = %+v, Done() = %v", step, d.Done())
	}
}

func TestAdvance_DeliversEventsByName(t *testing.T) {
	d, err := New(sample(), &stage{})
	if err != nil {
		t.Fatal(err)
	}

	var got []delivered
	record := func(tag string) HandlerFunc {
		return func(name, contents string) {
			got = append(got, delivered{tag + ":" + name, contents})
		}
	}
	d.Handle("Traffic Light Change", record("first"))
	d.Handle("Traffic Light Change", record("second"))

	step := d.Advance(1)
	if step.Events != 1 || step.Dropped != 1 {
		t.Errorf("step = %+v, want 1 delivered 1 dropped", step)
	}

	want := []delivered{
		{"first:Traffic Light Change", "north,2,1"},
		{"second:Traffic Light Change", "north,2,1"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(delivered{})); diff != "" {
		t.Errorf("delivered (-want +got):\n%s", diff)
	}
}

func TestAdvance_EventOrderFollowsTime(t *testing.T) {
	rec := recording.New("unordered", 1, nil)
	rec.LogEvent(2, "b", "")
	rec.LogEvent(1, "a", "")
	rec.LogEvent(2, "c", "")

	d, err := New(rec, &stage{})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, n := range []string{"a", "b", "c"} {
		d.Handle(n, HandlerFunc(func(name, _ string) { names = append(names, name) }))
	}
	d.Advance(5)

	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Errorf("delivery order (-want +got):\n%s", diff)
	}
}

func TestReset(t *testing.T) {
	st := &stage{}
	d, err := New(sample(), st)
	if err != nil {
		t.Fatal(err)
	}
	d.Advance(1)
	if !d.Done() {
		t.Fatal("expected Done after Advance(1)")
	}

	d.Reset()
	if d.Done() {
		t.Error("Done() after Reset")
	}
	if step := d.Advance(1); step.Frames != 3 {
		t.Errorf("frames after Reset = %d, want 3", step.Frames)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     Filter
		wantFrames int
		wantEvents int
	}{
		{"empty", Filter{}, 3, 1},
		{"by event name", Filter{Events: []string{"Horn"}}, 3, 0},
		{"after", Filter{After: 0.25}, 2, 1},
		{"before", Filter{Before: 0.25}, 1, 0},
		{"window", Filter{After: 0.3, Before: 0.4}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(sample(), &stage{}, WithFilter(tt.filter))
			if err != nil {
				t.Fatal(err)
			}
			d.Handle("Traffic Light Change", HandlerFunc(func(string, string) {}))

			step := d.Advance(100)
			if step.Frames != tt.wantFrames {
				t.Errorf("frames = %d, want %d", step.Frames, tt.wantFrames)
			}
			if step.Events != tt.wantEvents {
				t.Errorf("delivered events = %d, want %d", step.Events, tt.wantEvents)
			}
		})
	}
}

func TestRun_Instant(t *testing.T) {
	d, err := New(sample(), &stage{})
	if err != nil {
		t.Fatal(err)
	}
	d.Handle("Horn", HandlerFunc(func(string, string) {}))

	var times []float64
	sum, err := d.Run(context.Background(), clock.NewVirtualClock(epoch), 0, func(s Step) {
		times = append(times, s.Time)
	})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]float64{0, 0.25, 0.375, 0.5}, times); diff != "" {
		t.Errorf("step times (-want +got):\n%s", diff)
	}
	want := &Summary{
		Recording:   "T1",
		TotalFrames: 3,
		TotalEvents: 2,
		Frames:      3,
		Events:      1,
		Dropped:     1,
		Suppressed:  1,
		Duration:    500 * time.Millisecond,
	}
	if diff := cmp.Diff(want, sum); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
}

func TestRun_PacedOnVirtualClock(t *testing.T) {
	d, err := New(sample(), &stage{})
	if err != nil {
		t.Fatal(err)
	}
	vc := clock.NewVirtualClock(epoch)

	done := make(chan *Summary, 1)
	go func() {
		sum, err := d.Run(context.Background(), vc, 1, nil)
		if err != nil {
			t.Error(err)
		}
		done <- sum
	}()

	// Three gaps: 0.25s, 0.125s, 0.125s.
	for i := 0; i < 3; i++ {
		waitPending(t, vc)
		vc.Step(0.25)
	}

	select {
	case sum := <-done:
		if sum.Frames != 3 {
			t.Errorf("frames = %d, want 3", sum.Frames)
		}
		if sum.WallDuration != 750*time.Millisecond {
			t.Errorf("WallDuration = %v, want 750ms", sum.WallDuration)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not finish")
	}
}

func waitPending(t *testing.T, vc *clock.VirtualClock) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for vc.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Run never waited on the clock")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRun_Cancelled(t *testing.T) {
	d, err := New(sample(), &stage{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A real clock with a slow speed would wait for the first gap.
	sum, err := d.Run(ctx, clock.NewRealClock(), 0.001, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if sum.Frames > 1 {
		t.Errorf("frames = %d after cancel", sum.Frames)
	}
}

func TestRun_Empty(t *testing.T) {
	d, err := New(recording.New("empty", 30, nil), &stage{})
	if err != nil {
		t.Fatal(err)
	}
	sum, err := d.Run(context.Background(), clock.NewVirtualClock(epoch), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Frames != 0 || sum.Events != 0 {
		t.Errorf("summary = %+v, want nothing replayed", sum)
	}
}

func TestOnAdvance_RunsBeforeEvents(t *testing.T) {
	var order []string
	d, err := New(sample(), &stage{}, OnAdvance(func(at float64) {
		order = append(order, "advance")
	}))
	if err != nil {
		t.Fatal(err)
	}
	d.Handle("Traffic Light Change", HandlerFunc(func(string, string) {
		order = append(order, "event")
	}))

	d.Advance(0.25)
	if diff := cmp.Diff([]string{"advance", "event"}, order); diff != "" {
		t.Errorf("call order (-want +got):\n%s", diff)
	}
}
