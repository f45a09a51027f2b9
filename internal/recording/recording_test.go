package recording

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
)

var roster = []actor.Handle{
	{ID: 11, Name: "Titan", Representation: "Vehicles/Titan"},
	{ID: 12, Name: "Participant", Representation: "People/Pedestrian"},
}

func sampleRecording() *Recording {
	r := New("T1", 10, roster)
	r.AddFrame(Frame{
		Timestamp: 0,
		ActorIDs:  []int{11, 12},
		Positions: []mgl64.Vec3{{1, 0, 0}, {0, 0, 5}},
		Rotations: []mgl64.Vec3{{0, 90, 0}, {0, 0, 0}},
	})
	r.AddFrame(Frame{
		Timestamp: 0.1,
		ActorIDs:  []int{11, 12},
		Positions: []mgl64.Vec3{Sentinel, {0, 0, 5.5}},
		Rotations: []mgl64.Vec3{{}, {0, 10, 0}},
	})
	r.LogEvent(0.05, "Traffic Light Change", "toggle,2,0.5")
	return r
}

func TestClampFPS(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{30, 30},
		{0, MinFPS},
		{-5, MinFPS},
		{1, 1},
		{1000, 1000},
		{5000, MaxFPS},
		{math.NaN(), MinFPS},
	}
	for _, tt := range tests {
		if got := ClampFPS(tt.in); got != tt.want {
			t.Errorf("ClampFPS(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_CopiesRoster(t *testing.T) {
	r := New("T1", 5000, roster)

	if r.FPS != MaxFPS {
		t.Errorf("FPS = %v, want clamped %v", r.FPS, float64(MaxFPS))
	}
	if len(r.ActorIDs) != 2 || r.ActorIDs[0] != 11 || r.ActorIDs[1] != 12 {
		t.Fatalf("ActorIDs = %v", r.ActorIDs)
	}
	if r.ActorName(12) != "Participant" {
		t.Errorf("ActorName(12) = %q", r.ActorName(12))
	}
	if r.ActorRepresentation(11) != "Vehicles/Titan" {
		t.Errorf("ActorRepresentation(11) = %q", r.ActorRepresentation(11))
	}
	if r.ActorName(99) != "" {
		t.Errorf("ActorName(99) = %q, want empty", r.ActorName(99))
	}

	h := r.Handles()
	if len(h) != 2 || h[1] != roster[1] {
		t.Errorf("Handles() = %v", h)
	}
}

func TestFrame_Lookups(t *testing.T) {
	f := sampleRecording().Frames[1]

	pos, ok := f.PositionOf(11)
	if !ok || !IsSentinel(pos) {
		t.Errorf("PositionOf(11) = %v, %v; want sentinel", pos, ok)
	}
	rot, ok := f.RotationOf(12)
	if !ok || rot != (mgl64.Vec3{0, 10, 0}) {
		t.Errorf("RotationOf(12) = %v, %v", rot, ok)
	}
	if _, ok := f.PositionOf(99); ok {
		t.Error("PositionOf(99) should report missing")
	}
}

func TestShift(t *testing.T) {
	r := sampleRecording()
	orig := r.Clone()
	r.Shift(2)

	for i := range r.Frames {
		if want := orig.Frames[i].Timestamp + 2; r.Frames[i].Timestamp != want {
			t.Errorf("Frames[%d].Timestamp = %v, want %v", i, r.Frames[i].Timestamp, want)
		}
	}
	if want := orig.Events[0].Time + 2; r.Events[0].Time != want {
		t.Errorf("event time = %v, want %v", r.Events[0].Time, want)
	}
	if len(r.Frames) != 2 || len(r.Events) != 1 {
		t.Error("Shift must not change frame or event counts")
	}
}

func TestClone_IsDeep(t *testing.T) {
	r := sampleRecording()
	c := r.Clone()

	if !r.Equal(c) {
		t.Fatal("clone should equal original")
	}

	c.Frames[0].Positions[0] = mgl64.Vec3{9, 9, 9}
	c.ActorNames[0] = "mutated"
	c.Events[0].Contents = "mutated"

	if r.Frames[0].Positions[0] != (mgl64.Vec3{1, 0, 0}) {
		t.Error("Clone shares frame slices with the original")
	}
	if r.ActorNames[0] != "Titan" || r.Events[0].Contents != "toggle,2,0.5" {
		t.Error("Clone shares metadata with the original")
	}
	if r.Equal(c) {
		t.Error("mutated clone should not equal original")
	}
}

func TestEqual(t *testing.T) {
	a := New("x", 30, nil)
	b := &Recording{Name: "x", FPS: 30}
	if !a.Equal(b) {
		t.Error("nil and empty slices should compare equal")
	}

	var nilRec *Recording
	if nilRec.Equal(a) || !nilRec.Equal(nil) {
		t.Error("nil recording equality is wrong")
	}

	b.FPS = 31
	if a.Equal(b) {
		t.Error("different FPS should not be equal")
	}
}

func TestDuration(t *testing.T) {
	if d := sampleRecording().Duration(); d != 0.1 {
		t.Errorf("Duration() = %v, want 0.1", d)
	}
	if d := New("empty", 30, nil).Duration(); d != 0 {
		t.Errorf("Duration() of empty recording = %v, want 0", d)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"xml", FormatXML, false},
		{" CSV ", FormatCSV, false},
		{"json", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	if FormatXML.Ext() != ".xml" || !FormatXML.Playable() || FormatCSV.Playable() {
		t.Error("format helpers are wrong")
	}

	if _, err := ParseFormats([]string{"xml", "bogus"}); err == nil {
		t.Error("ParseFormats should reject unknown names")
	}
}
