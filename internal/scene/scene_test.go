package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/intersection"
)

func TestBounds_Contains(t *testing.T) {
	b := Bounds{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}
	tests := []struct {
		p    mgl64.Vec3
		want bool
	}{
		{mgl64.Vec3{0, 0, 0}, true},
		{mgl64.Vec3{1, 1, 1}, true},
		{mgl64.Vec3{1.01, 0, 0}, false},
		{mgl64.Vec3{0, 0, -2}, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestVehicle_DrivesForward(t *testing.T) {
	s := New(DefaultBounds, nil)
	v := s.AddVehicle("car", mgl64.Vec3{0, 0, 0}, 0)
	v.SetSpeed(10)

	s.Step(1)
	if pose, _ := v.Transform(); pose.Position != (mgl64.Vec3{}) {
		t.Errorf("stationary vehicle moved to %v", pose.Position)
	}

	v.SetMoving(true)
	s.Step(0.5)
	pose, ok := v.Transform()
	if !ok {
		t.Fatal("vehicle destroyed inside bounds")
	}
	if !pose.Position.ApproxEqual(mgl64.Vec3{5, 0, 0}) {
		t.Errorf("position = %v, want {5 0 0}", pose.Position)
	}
	if pose.Rotation != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("rotation = %v", pose.Rotation)
	}
}

func TestVehicle_Heading(t *testing.T) {
	tests := []struct {
		heading float64
		want    mgl64.Vec3
	}{
		{0, mgl64.Vec3{1, 0, 0}},
		{90, mgl64.Vec3{0, 0, -1}},
		{180, mgl64.Vec3{-1, 0, 0}},
		{270, mgl64.Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		v := NewVehicle(actor.Handle{ID: 1}, mgl64.Vec3{}, tt.heading)
		got := v.Forward()
		if !got.ApproxEqualThreshold(tt.want, 1e-9) {
			t.Errorf("Forward() at %v° = %v, want %v", tt.heading, got, tt.want)
		}
	}
}

func TestVehicle_DestroyedAtBoundary(t *testing.T) {
	s := New(Bounds{Min: mgl64.Vec3{-10, -1, -10}, Max: mgl64.Vec3{10, 1, 10}}, nil)
	v := s.AddVehicle("car", mgl64.Vec3{0, 0, 0}, 0)
	v.SetSpeed(4)
	v.SetMoving(true)

	s.Step(2)
	if v.Destroyed() {
		t.Fatal("destroyed at x=8")
	}
	s.Step(1)
	if !v.Destroyed() {
		t.Fatal("still alive at x=12")
	}
	if _, ok := v.Transform(); ok {
		t.Error("destroyed vehicle still resolves a transform")
	}

	// Destroyed vehicles keep their roster slot.
	if got := len(s.ListActors()); got != 1 {
		t.Errorf("ListActors() len = %d, want 1", got)
	}
}

func TestScene_IDsInCreationOrder(t *testing.T) {
	s := New(DefaultBounds, nil)
	s.AddVehicle("a", mgl64.Vec3{}, 0)
	p := s.AddPedestrian("p", mgl64.Vec3{1, 0, 1})
	s.AddVehicle("b", mgl64.Vec3{}, 0)

	var ids []int
	for _, a := range s.ListActors() {
		ids = append(ids, a.Identity().ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
	if p.Identity().Representation != "People/Participant" {
		t.Errorf("pedestrian representation = %q", p.Identity().Representation)
	}
	if len(s.Vehicles()) != 2 {
		t.Errorf("Vehicles() = %d, want 2", len(s.Vehicles()))
	}
}

func TestCity(t *testing.T) {
	s, ctrl := City(nil)

	if got := len(s.ListActors()); got != 5 {
		t.Fatalf("city has %d actors, want 5", got)
	}
	ns, ew := ctrl.Lights()
	if ns[0].Color() != intersection.Green || ew[0].Color() != intersection.Red {
		t.Errorf("initial lights = %v/%v", ns[0].Color(), ew[0].Color())
	}

	// 190m at 13.4 m/s takes a little over 14 seconds.
	for i := 0; i < 140; i++ {
		s.Step(0.1)
	}
	for _, v := range s.Vehicles() {
		if v.Destroyed() {
			t.Errorf("%s left the map early", v.Identity().Name)
		}
	}
	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}
	for _, v := range s.Vehicles() {
		if !v.Destroyed() {
			pose, _ := v.Transform()
			t.Errorf("%s still on the map at %v", v.Identity().Name, pose.Position)
		}
	}
	if math.Abs(s.Elapsed()-15) > 1e-9 {
		t.Errorf("Elapsed() = %v, want 15", s.Elapsed())
	}
}
