package engine

//go:generate go tool stringer -type=State -linecomment -output=state_string.go

// State is the lifecycle position of a Session. A session moves forward
// only: Idle, Validating, Executing, Done.
type State int

const (
	StateIdle       State = iota // idle
	StateValidating              // validating
	StateExecuting               // executing
	StateDone                    // done
)
