package clock

import (
	"testing"
	"time"
)

func TestClockImplementations(t *testing.T) {
	var _ Clock = NewRealClock()
	var _ Clock = NewVirtualClock(time.Now())
}

func TestVirtualClockSeconds(t *testing.T) {
	vc := NewVirtualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	vc.Step(1.5)

	if got := vc.Seconds(); got != 1.5 {
		t.Fatalf("Seconds() = %v, want 1.5", got)
	}
}
