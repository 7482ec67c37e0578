// Package drill implements the drilling cycle of the rig: the sensor
// aggregator, the drill sequencer state machine, the override/recovery
// handler and the repeating cycle controller.
//
// All hardware access goes through the interfaces in core.Peripherals and
// all waiting goes through core.Clock, so the whole cycle runs unchanged
// against the real board or against the sim package.
package drill
