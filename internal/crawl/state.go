package crawl

import "fmt"

// State is the lifecycle of a Job. Draining is always passed through once
// Init has started, however Running ends.
type State int

const (
	Idle State = iota
	Init
	Running
	Draining
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Init:
		return "init"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}
