package recorder

// State is the lifecycle state of a Service.
type State int

const (
	Stopped State = iota
	Recording
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Recording:
		return "recording"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}
