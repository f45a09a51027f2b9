package recorder

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// CaptureFrame samples every actor in roster at time now. ids holds the
// identity recorded for each roster slot at start; it is used verbatim so
// an actor that has left the scene keeps its column, with the sentinel
// position and a zero rotation.
func CaptureFrame(roster []actor.Actor, ids []int, now float64) recording.Frame {
	f := recording.Frame{
		Timestamp: now,
		ActorIDs:  make([]int, len(ids)),
		Positions: make([]mgl64.Vec3, len(ids)),
		Rotations: make([]mgl64.Vec3, len(ids)),
	}
	copy(f.ActorIDs, ids)

	for i := range ids {
		var (
			pose actor.Transform
			ok   bool
		)
		if i < len(roster) && roster[i] != nil {
			pose, ok = roster[i].Transform()
		}
		if !ok {
			f.Positions[i] = recording.Sentinel
			continue
		}
		f.Positions[i] = pose.Position
		f.Rotations[i] = pose.Rotation
	}
	return f
}
