package level

import "fmt"

// Event is a collision that ends a run.
type Event int

const (
	TouchLethalWall Event = iota
	FallInHole
	ReachEnd
)

func (e Event) String() string {
	switch e {
	case TouchLethalWall:
		return "touch_lethal_wall"
	case FallInHole:
		return "fall_in_hole"
	case ReachEnd:
		return "reach_end"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Action is the scene change an event triggers.
type Action int

const (
	Stay Action = iota
	ReloadCurrent
	Advance
)

func (a Action) String() string {
	switch a {
	case Stay:
		return "stay"
	case ReloadCurrent:
		return "reload"
	case Advance:
		return "advance"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Outcome is the result of [Transition]. Next is set only for Advance.
type Outcome struct {
	Action Action
	Next   string
}

// Transition returns what happens after event e on level l. Both hazards
// reload the level. Reaching End advances to l.NextLevel, or stays when
// there is none.
func Transition(l *Level, e Event) Outcome {
	switch e {
	case TouchLethalWall, FallInHole:
		return Outcome{Action: ReloadCurrent}
	case ReachEnd:
		if l.NextLevel == "" {
			return Outcome{Action: Stay}
		}
		return Outcome{Action: Advance, Next: l.NextLevel}
	}
	return Outcome{Action: Stay}
}
