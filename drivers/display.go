package drivers

import "soildrill/core"

// CharacterLCD is the subset of tinygo.org/x/drivers/hd44780i2c.Device the
// display uses.
type CharacterLCD interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
}

// TextDisplay implements core.DisplayDriver on a two line LCD. Unchanged
// text is not rewritten.
type TextDisplay struct {
	lcd   CharacterLCD
	width int
	last  [2]string
	shown bool
}

// NewTextDisplay creates a display of the given character width
func NewTextDisplay(lcd CharacterLCD, width int) *TextDisplay {
	return &TextDisplay{lcd: lcd, width: width}
}

func (d *TextDisplay) Show(line1, line2 string) {
	line1 = core.PadRight(line1, d.width)
	line2 = core.PadRight(line2, d.width)
	if d.shown && d.last[0] == line1 && d.last[1] == line2 {
		return
	}
	d.lcd.ClearDisplay()
	d.lcd.SetCursor(0, 0)
	d.lcd.Print([]byte(line1))
	d.lcd.SetCursor(0, 1)
	d.lcd.Print([]byte(line2))
	d.last = [2]string{line1, line2}
	d.shown = true
}
