package lighting

// Base colors of the UI surfaces, before filtering.
const (
	SkyBlue                   = "#87ceeb"
	YellowLeather             = "#e1a836"
	DollarBillGreen           = "#85bb65"
	SandyBrown                = "#f9cca4"
	LavenderPurple            = "#b09cc9"
	LavenderPurpleTranslucent = LavenderPurple + "aa"
	Parchment                 = "#fcf5ef"
	DustyPink                 = "#ffd1d8"
	WhiteYellow               = "#fff5e5"
	BlueMoonGray              = "#90c0df"
	WhiteWindowPane           = "#888888"
	DefaultGray               = "#999"

	Fuschia      = "#b827fc"
	ElectricBlue = "#2c90fc"
	BrightGreen  = "#b8fd33"
	LightOrange  = "#fec837"
	HotRed       = "#fd1892"
)

// WaitColors colors duration pills from trivial (green) to long (red).
var WaitColors = map[string]string{
	"trivial":     "#4d0",
	"trivialPlus": "#8d0",
	"smallMinus":  "#ad0",
	"small":       "#dd0",
	"smallPlus":   "#db0",
	"mediumMinus": "#da0",
	"medium":      "#d80",
	"mediumPlus":  "#d60",
	"longMinus":   "#d30",
	"long":        "#d00",
}

// Lateness classes for the clock.
const (
	LateWarning         = 20 * 60
	VeryLateWarning     = 22 * 60
	VeryVeryLateWarning = 23*60 + 30
)

// Lateness grades how close the clock is to the end of the day: 0 is not
// late, 3 is very very late.
func Lateness(minute int) int {
	switch {
	case minute >= VeryVeryLateWarning:
		return 3
	case minute >= VeryLateWarning:
		return 2
	case minute >= LateWarning:
		return 1
	}
	return 0
}
