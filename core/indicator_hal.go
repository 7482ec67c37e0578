package core

// Indicator is one of the user-visible lamps.
type Indicator uint8

const (
	IndicatorError Indicator = iota
	IndicatorComplete
	IndicatorMotor

	IndicatorCount = 3
)

// IndicatorDriver switches the lamps.
type IndicatorDriver interface {
	Set(lamp Indicator, on bool)
}

// DisplayDriver is a write-only two line character display.
type DisplayDriver interface {
	Show(line1, line2 string)
}
