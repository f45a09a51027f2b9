package recording

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/export"
)

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec := New("run", 10, []Handle{{ID: 1, Name: "car", Representation: "Vehicles/Titan"}})
	rec.AddFrame(Frame{Timestamp: 0, ActorIDs: []int{1}, Positions: []mgl64.Vec3{{1, 2, 3}}, Rotations: []mgl64.Vec3{{0, 90, 0}}})

	if err := export.NewXMLExporter(archive.NewDir(dir), nil).Export(context.Background(), rec); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	got, err := Load(context.Background(), dir, "run")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Equal(rec) {
		t.Fatalf("Load() = %+v, want %+v", got, rec)
	}
}
