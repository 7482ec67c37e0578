package core

// RemoteState is the decoded operator remote input.
type RemoteState uint8

const (
	RemoteOff RemoteState = iota
	RemoteEnabled
	RemoteOverride
)

func (s RemoteState) String() string {
	switch s {
	case RemoteOff:
		return "OFF"
	case RemoteEnabled:
		return "ENABLED"
	case RemoteOverride:
		return "OVERRIDE"
	}
	return "UNKNOWN"
}

// RemoteDriver returns the most recently decoded remote state.
type RemoteDriver interface {
	State() RemoteState
}
