package playback

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

type marker struct{ pos mgl64.Vec3 }

func (m *marker) SetTransform(pos, _ mgl64.Vec3) { m.pos = pos }

func TestAdvanceMovesRepresentation(t *testing.T) {
	rec := recording.New("run", 10, []actor.Handle{{ID: 4, Name: "car"}})
	rec.AddFrame(recording.Frame{Timestamp: 0, ActorIDs: []int{4},
		Positions: []mgl64.Vec3{{1, 0, 0}}, Rotations: []mgl64.Vec3{{}}})
	rec.LogEvent(0, "Horn", "")

	m := &marker{}
	d, err := New(rec, SpawnerFunc(func(actor.Handle) (Representation, error) { return m, nil }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var heard []string
	d.Handle("Horn", HandlerFunc(func(name, _ string) { heard = append(heard, name) }))

	step := d.Advance(0)
	if step.Frames != 1 || step.Events != 1 {
		t.Fatalf("Advance() = %+v, want one frame and one event", step)
	}
	if m.pos != (mgl64.Vec3{1, 0, 0}) || len(heard) != 1 {
		t.Fatalf("pos = %v heard = %v", m.pos, heard)
	}
	if !d.Done() {
		t.Fatal("Done() = false after the last frame")
	}
}
