package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestStatic_MoveAndRemove(t *testing.T) {
	a := NewStatic(Handle{ID: 7, Name: "car", Representation: "Prefabs/Car"})
	a.Move(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 90, 0})

	got, ok := a.Transform()
	if !ok {
		t.Fatal("Transform() reported unresolvable before Remove")
	}
	if got.Position != (mgl64.Vec3{1, 2, 3}) || got.Rotation != (mgl64.Vec3{0, 90, 0}) {
		t.Errorf("Transform() = %+v", got)
	}

	a.Remove()
	if _, ok := a.Transform(); ok {
		t.Error("Transform() should report unresolvable after Remove")
	}
	if a.Identity().ID != 7 {
		t.Errorf("Identity().ID = %d after Remove, want 7", a.Identity().ID)
	}
}

func TestRoster_ListActorsReturnsCopy(t *testing.T) {
	r := NewRoster(NewStatic(Handle{ID: 1}), NewStatic(Handle{ID: 2}))

	list := r.ListActors()
	list[0] = nil

	if r.ListActors()[0] == nil {
		t.Error("ListActors() should return a copy")
	}

	r.Add(NewStatic(Handle{ID: 3}))
	if len(list) != 2 || r.Len() != 3 {
		t.Errorf("len(list) = %d, Len() = %d; want 2, 3", len(list), r.Len())
	}
}

func TestSourceFunc(t *testing.T) {
	var src Source = SourceFunc(func() []Actor {
		return []Actor{NewStatic(Handle{ID: 9})}
	})
	if got := src.ListActors(); len(got) != 1 || got[0].Identity().ID != 9 {
		t.Errorf("ListActors() = %v", got)
	}
}
