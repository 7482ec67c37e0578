// Package drivers holds the portable half of the rig peripheral drivers:
// state updated from interrupt handlers (encoder counters, vibration
// latches, remote pulse decoding) and adapters that turn TinyGo device
// drivers and the core GPIO/PWM HAL into the interfaces the drill
// controller consumes. Nothing here imports machine, so it all runs under
// regular Go tests.
package drivers
