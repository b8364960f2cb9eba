package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/lighting"
	"github.com/jwebster45206/mythgarden-console/pkg/portrait"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
	"github.com/jwebster45206/mythgarden-console/pkg/toast"
)

const (
	messageTail = 5
	skyWidth    = 36
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

// panel backgrounds before filtering
var panelBases = [panelCount]string{
	panelActions:   lighting.Parchment,
	panelPlace:     lighting.SandyBrown,
	panelVillagers: lighting.DustyPink,
	panelItems:     lighting.DollarBillGreen,
	panelInventory: lighting.YellowLeather,
}

func (m ConsoleUI) View() string {
	if m.width == 0 || m.height == 0 {
		return "\n  Loading Mythgarden..."
	}

	switch {
	case m.showQuit:
		return m.renderQuitModal()
	case m.showSettings:
		return m.renderSettings()
	case m.showHistory:
		return m.renderHistoryModal()
	}

	snap := m.store.Current()
	theme := lighting.NewTheme(snap.Clock.Time)

	if snap.GameOver {
		return m.renderGameOver(snap)
	}

	ix := actions.Build(snap.Actions)

	colWidth := max(24, (m.width-4)/3)

	left := []string{m.renderPanel(theme, panelPlace, snap, ix, colWidth, snap.Place.Name)}
	left = append(left, m.renderPanel(theme, panelVillagers, snap, ix, colWidth, ""))
	if snap.Place.HasInventory {
		left = append(left, m.renderPanel(theme, panelItems, snap, ix, colWidth, ""))
	}
	middle := []string{
		m.renderPanel(theme, panelInventory, snap, ix, colWidth, snap.Wallet),
		m.renderPanel(theme, panelActions, snap, ix, colWidth, ""),
	}
	right := []string{m.renderToasts(theme, colWidth)}
	if snap.Dialogue != nil {
		right = append([]string{renderDialogue(theme, *snap.Dialogue, colWidth)}, right...)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, left...),
		" ",
		lipgloss.JoinVertical(lipgloss.Left, middle...),
		" ",
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTopBar(theme, snap),
		body,
		renderMessages(theme, snap.Messages, m.width-2),
		m.renderFooter(),
	)
}

func (m ConsoleUI) renderTopBar(theme lighting.Theme, snap snapshot.Snapshot) string {
	h := snap.Hero
	bar := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Bg(lighting.LavenderPurple))).
		Foreground(lipgloss.Color(theme.Text(lighting.LavenderPurple))).
		Padding(0, 1)
	clock := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Bg(lighting.LavenderPurple))).
		Foreground(lipgloss.Color(theme.Clock())).
		Bold(lighting.Lateness(snap.Clock.Time) > 0)

	info := fmt.Sprintf("%s · Score %d (best %d) · ", h.Name, h.Score, h.HighScore)
	if h.BoostLevel > 0 {
		info = fmt.Sprintf("%s · Boost %d · Score %d (best %d) · ", h.Name, h.BoostLevel, h.Score, h.HighScore)
	}
	line := bar.Render(info) + clock.Render(snap.Clock.Label()) + bar.Render("")
	if m.pending > 0 {
		line += promptStyle.Render(" …")
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, renderSky(theme, m.sky, skyWidth))
}

// renderSky draws the sun and moon on a one-line strip.
func renderSky(theme lighting.Theme, sky lighting.SkyClock, width int) string {
	cells := []rune(strings.Repeat(" ", width))
	place := func(p lighting.Point, glyph rune) {
		if p.X < 0 || p.X > 1 {
			return
		}
		cells[int(math.Round(p.X*float64(width-1)))] = glyph
	}
	if lighting.MoonVisible(sky.Minute) {
		glyph := '🌙'
		if lighting.MoonPhaseWidth(sky.Day) < 0.2 {
			glyph = '🌕'
		}
		place(lighting.MoonPosition(sky.Minute), glyph)
	}
	if lighting.SunVisible(sky.Minute) {
		place(lighting.SunPosition(sky.Minute), '☀')
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Bg(lighting.SkyBlue))).
		Render(string(cells))
}

func (m ConsoleUI) renderPanel(theme lighting.Theme, p panel, snap snapshot.Snapshot, ix actions.Index, width int, subtitle string) string {
	base := panelBases[p]
	bg := lipgloss.Color(theme.Bg(base))
	fg := lipgloss.Color(theme.Text(base))

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Width(width).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.Bg(lighting.DefaultGray)))
	if p == m.focus {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(theme.Bg(lighting.HotRed)))
	}

	var b strings.Builder
	title := panelTitles[p]
	if subtitle != "" {
		title += " · " + subtitle
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Background(bg).Render(title))

	list := entitiesFor(p, snap, ix, m.held)
	if len(list) == 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Background(bg).Render("nothing here"))
	}
	cursor := clampIndex(m.cursor[p], len(list))
	for i, e := range list {
		row := lipgloss.NewStyle().Background(bg).Foreground(fg)
		switch {
		case e.Highlight:
			row = row.Bold(true).Foreground(lipgloss.Color(theme.Bg(lighting.Fuschia)))
		case e.Dim:
			row = row.Faint(true)
		}
		marker := "  "
		if p == m.focus && i == cursor {
			marker = "▶ "
		}
		line := row.Render(marker + e.Label)
		if e.HasPill {
			if pill := renderPill(theme, e.Pill, p == panelActions); pill != "" {
				line += " " + pill
			}
		}
		b.WriteString("\n" + line)
	}
	return style.Render(b.String())
}

// renderPill shows the cost of an entity's action. withoutEmoji is for rows
// that already lead with the emoji.
func renderPill(theme lighting.Theme, p actions.Pill, withoutEmoji bool) string {
	text := p.Emoji
	if withoutEmoji {
		text = ""
	}
	if p.HasCost() {
		switch p.CostType {
		case actions.CostTime:
			text = strings.TrimSpace(fmt.Sprintf("%s %dm", text, *p.CostAmount))
		case actions.CostMoney:
			text = strings.TrimSpace(fmt.Sprintf("%s ⚜️%d", text, *p.CostAmount))
		}
	}
	if text == "" {
		return ""
	}
	bg := theme.Wait(string(p.WaitClass))
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(theme.Text(bg))).
		Padding(0, 1).
		Render(text)
}

func renderDialogue(theme lighting.Theme, d snapshot.Dialogue, width int) string {
	base := lighting.WhiteYellow
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(d.Name))
	if d.Affinity != nil {
		b.WriteString(" " + hearts(*d.Affinity))
	}
	b.WriteString("\n" + wordwrap.String(d.FullText, width-4))
	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Bg(base))).
		Foreground(lipgloss.Color(theme.Text(base))).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

func renderMessages(theme lighting.Theme, msgs []snapshot.Message, width int) string {
	base := lighting.Parchment
	start := max(0, len(msgs)-messageTail)
	lines := make([]string, 0, messageTail)
	for _, msg := range msgs[start:] {
		text := wordwrap.String(msg.Text, max(10, width-4))
		if msg.IsError {
			text = errorStyle.Render(text)
		}
		lines = append(lines, text)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Bg(base))).
		Foreground(lipgloss.Color(theme.Text(base))).
		Width(max(10, width)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// renderToasts stacks the active toasts, fading each toward the background.
func (m ConsoleUI) renderToasts(theme lighting.Theme, width int) string {
	active := m.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	base := lighting.WhiteYellow
	bg := theme.Bg(base)
	var rows []string
	for _, t := range active {
		fg := theme.Text(base)
		if t.IsError {
			fg = theme.Bg(lighting.HotRed)
		}
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color(fade(fg, bg, m.toasts.Opacity(t)))).
			Width(width).
			Padding(0, 1)
		if t.State == toast.Fading {
			style = style.Faint(true)
		}
		rows = append(rows, style.Render(wordwrap.String(t.Text, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// fade blends fg toward bg as opacity drops.
func fade(fg, bg string, opacity float64) string {
	f, _, err := lighting.ParseHex(fg)
	if err != nil {
		return fg
	}
	b, _, err := lighting.ParseHex(bg)
	if err != nil {
		return fg
	}
	return f.BlendRgb(b, 1-math.Max(0, math.Min(1, opacity))).Clamped().Hex()
}

func (m ConsoleUI) renderFooter() string {
	if m.commanding {
		return m.command.View()
	}
	hint := "tab panels · enter act · g gift · : command · h history · s settings · q quit"
	if m.held != nil {
		hint = "🎁 holding a gift: pick a highlighted villager and press enter · esc to put it back"
	}
	return promptStyle.Render(hint)
}

func renderHistory(msgs []snapshot.Message, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Message history") + "\n\n")
	for _, msg := range msgs {
		text := wordwrap.String(msg.Text, max(10, width-2))
		if msg.IsError {
			text = errorStyle.Render(text)
		}
		b.WriteString(text + "\n")
	}
	return b.String()
}

// historyText is the plain message log for the clipboard.
func historyText(msgs []snapshot.Message) string {
	lines := make([]string, len(msgs))
	for i, msg := range msgs {
		lines[i] = msg.Text
	}
	return strings.Join(lines, "\n")
}

func (m ConsoleUI) renderHistoryModal() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.history.View(),
		"",
		promptStyle.Render("↑/↓ scroll · c copy to clipboard · esc close"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content))
}

func (m ConsoleUI) renderSettings() string {
	s := m.settings
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Settings") + "\n\n")

	row := func(f settingsField, text string) {
		if s.field == f {
			b.WriteString(modalSelectedItemStyle.Render("▶ "+text) + "\n")
			return
		}
		b.WriteString("  " + text + "\n")
	}

	row(fieldName, "Name: "+s.name.View())
	portraitLabel := "none"
	if len(s.portraits) > 0 {
		if path, err := portrait.PathFromURL(s.portraits[s.portrait]); err == nil {
			portraitLabel = fmt.Sprintf("◀ %s ▶ (%d/%d)", strings.TrimSuffix(path, filepath.Ext(path)), s.portrait+1, len(s.portraits))
		} else {
			portraitLabel = "⚠️ unreadable portrait"
		}
	}
	row(fieldPortrait, "Portrait: "+portraitLabel)
	b.WriteString("\n")

	if !s.loaded {
		b.WriteString(promptStyle.Render("Loading challenges...") + "\n")
	} else {
		for _, c := range challenges {
			draft, _ := challengeValues(s.settings, c.field)
			box := "[ ]"
			if draft {
				box = "[x]"
			}
			row(c.field, fmt.Sprintf("%s %s (+%d%%)", box, c.label, c.bonus))
		}
		b.WriteString(fmt.Sprintf("\nScore multiplier: ×%.2f", s.settings.ScoreMultiplier))
		if pendingChanges(s.settings) {
			b.WriteString(fmt.Sprintf("\n⏳ Next week: ×%.2f. Changes apply when you start a new week.", s.settings.DraftScoreMultiplier))
		}
		b.WriteString("\n")
	}

	if s.err != "" {
		b.WriteString("\n" + errorStyle.Render(s.err) + "\n")
	}
	b.WriteString("\n" + promptStyle.Render("↑/↓ choose · ←/→ portrait · enter select · esc close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Width(64).Render(b.String()))
}

func (m ConsoleUI) renderGameOver(snap snapshot.Snapshot) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("The week is over") + "\n\n")
	b.WriteString(fmt.Sprintf("%s finished with a score of %d.\n", snap.Hero.Name, snap.Hero.Score))
	b.WriteString(fmt.Sprintf("High score: %d\n\n", snap.Hero.HighScore))
	if m.reloading {
		b.WriteString(promptStyle.Render("Loading..."))
	} else {
		b.WriteString(promptStyle.Render("Press R to start a new week, Q to quit"))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Width(50).Render(b.String()))
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Mythgarden?"))
	content.WriteString("\n\n")
	content.WriteString("Your farm is saved on the server.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep playing"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}
