// Package telemetry carries drill events and a small command set over the
// framed link in package protocol. Link is the device side; Decoder turns
// received messages back into drill values on the host.
package telemetry

// Message names and argument formats. The identify pair is registered
// first so its IDs are known before the dictionary is read.
const (
	IdentifyResponse = "identify_response"
	Identify         = "identify"
	GetStatus        = "get_status"
	DumpEvents       = "dump_events"

	DrillStatus   = "drill_status"
	DrillPhase    = "drill_phase"
	DrillSample   = "drill_sample"
	DrillFault    = "drill_fault"
	DrillRecovery = "drill_recovery"
	DrillOutcome  = "drill_outcome"
	DrillEvent    = "drill_event"
)

const (
	IdentifyResponseID = 0
	IdentifyID         = 1

	// IdentifyChunk is the dictionary chunk size that fits one frame.
	IdentifyChunk = 40
)

var formats = map[string]string{
	IdentifyResponse: "offset=%u data=%*s",
	Identify:         "offset=%u count=%c",
	GetStatus:        "",
	DumpEvents:       "",
	DrillStatus:      "cycle=%u phase=%c trans=%hu rotat=%hu last=%c completed=%u failed=%u",
	DrillPhase:       "cycle=%u clock=%u phase=%c",
	DrillSample:      "clock=%u trans=%hu rotat=%hu verdict=%c",
	DrillFault:       "cycle=%u cause=%c trans=%hu",
	DrillRecovery:    "cycle=%u result=%c trans=%hu",
	DrillOutcome:     "cycle=%u outcome=%c",
	DrillEvent:       "kind=%c clock=%u v1=%u v2=%u",
}

// Format returns the argument format of a message.
func Format(name string) string {
	return formats[name]
}

// Responses lists the device to host messages the decoder understands.
var Responses = []string{
	DrillStatus, DrillPhase, DrillSample, DrillFault, DrillRecovery, DrillOutcome, DrillEvent,
}
