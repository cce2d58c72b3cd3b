package common

import "fmt"

// ANSI escape sequences used by the terminal board renderer
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorBlue   = "\033[34m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// SeatColors maps a seat index to its terminal colour
var SeatColors = map[int]string{
	0: ColorRed,
	1: ColorBlue,
	2: ColorGreen,
	3: ColorYellow,
}

// Colorize wraps text in the seat's colour. Unknown seats are left uncoloured.
func Colorize(seat int, text string) string {
	c, ok := SeatColors[seat]
	if !ok {
		return text
	}
	return fmt.Sprintf("%s%s%s", c, text, ColorReset)
}
