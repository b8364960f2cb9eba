package lighting

// Text colors picked by background brightness.
const (
	LightText = Parchment
	DarkText  = "#2b2118"
)

// Theme is the filter for one clock reading. It is computed once per
// render and passed to every panel; nothing reads lighting from globals.
type Theme struct {
	Minute int
	Filter Filter
}

// NewTheme computes the theme for a clock minute.
func NewTheme(minute int) Theme {
	return Theme{Minute: minute, Filter: ColorFilterForTime(float64(minute))}
}

// Bg filters a palette background.
func (t Theme) Bg(base string) string {
	return t.Filter.MustApply(base)
}

// Text returns a readable text color for a filtered background.
func (t Theme) Text(base string) string {
	if IsDark(t.Bg(base)) {
		return LightText
	}
	return DarkText
}

// Wait returns the filtered pill color for a wait class, or the default gray
// for an unknown class.
func (t Theme) Wait(class string) string {
	c, ok := WaitColors[class]
	if !ok {
		c = DefaultGray
	}
	return t.Bg(c)
}

// Clock returns the clock color for the lateness of the day.
func (t Theme) Clock() string {
	switch Lateness(t.Minute) {
	case 3:
		return t.Bg(HotRed)
	case 2:
		return t.Bg(Fuschia)
	case 1:
		return t.Bg(LightOrange)
	}
	return t.Text(Parchment)
}
