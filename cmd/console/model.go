package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jwebster45206/mythgarden-console/internal/client"
	"github.com/jwebster45206/mythgarden-console/internal/dispatch"
	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/lighting"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
	"github.com/jwebster45206/mythgarden-console/pkg/toast"
)

// TickInterval drives toast sweeping and the sky animation.
const TickInterval = toast.SweepInterval

// ConsoleUI is the single bubbletea model. The Store is the only state that
// server data reaches, and only Update writes to it.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	client *client.Client
	disp   *dispatch.Dispatcher
	log    *slog.Logger
	now    func() time.Time
	copy   func(string) error

	store    *snapshot.Store
	toasts   *toast.Tracker
	sky      lighting.SkyClock
	lastTick time.Time

	width  int
	height int

	focus  panel
	cursor [panelCount]int
	// held is the inventory item picked up to give away.
	held    *int
	pending int

	commanding bool
	command    textinput.Model

	showHistory bool
	history     viewport.Model

	showQuit bool

	showSettings bool
	settings     settingsModal

	reloading bool
}

type (
	tickMsg      time.Time
	dispatchMsg  struct{ res dispatch.Result }
	restartMsg   struct{ res dispatch.Result }
	bootstrapMsg struct {
		partial snapshot.Partial
		err     error
	}
	settingsMsg struct {
		settings snapshot.Settings
		res      dispatch.Result
	}
	saveNameMsg struct{ seq int }
)

// NewConsoleUI builds the model around the snapshot embedded in the game page.
func NewConsoleUI(c *client.Client, log *slog.Logger, initial snapshot.Partial) ConsoleUI {
	return newModel(c, log, initial, time.Now, clipboard.WriteAll)
}

func newModel(c *client.Client, log *slog.Logger, initial snapshot.Partial, now func() time.Time, copyText func(string) error) ConsoleUI {
	ci := textinput.New()
	ci.Prompt = promptStyle.Render(": ")
	ci.Placeholder = PlaceHolderText
	ci.CharLimit = 120

	hv := viewport.New(60, 20)
	hv.MouseWheelEnabled = true

	m := ConsoleUI{
		client:  c,
		disp:    dispatch.New(c, log),
		log:     log,
		now:     now,
		copy:    copyText,
		toasts:  toast.NewTracker(now),
		command: ci,
		history: hv,
		focus:   panelActions,
	}
	m.reset(initial)
	return m
}

// reset replaces the store with a freshly loaded page.
func (m *ConsoleUI) reset(p snapshot.Partial) {
	snap := snapshot.Merge(snapshot.Snapshot{}, p)
	m.store = snapshot.NewStore(snap)
	m.sky = lighting.SkyClock{Minute: float64(snap.Clock.Time), Day: snap.Clock.DayNumber}
	m.held = nil
	m.cursor = [panelCount]int{}
	m.toasts.Observe(snap.Messages)
}

func (m ConsoleUI) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.Width = min(80, msg.Width-8)
		m.history.Height = max(5, msg.Height-10)
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		var elapsed time.Duration
		if !m.lastTick.IsZero() {
			elapsed = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.toasts.Sweep()
		clock := m.store.Current().Clock
		m.sky = m.sky.Step(elapsed, clock.Time, clock.DayNumber)
		return m, tick()

	case dispatchMsg:
		m.pending = max(0, m.pending-1)
		m.apply(msg.res)
		return m.afterApply()

	case settingsMsg:
		m.apply(msg.res)
		if msg.res.Failed() {
			m.settings.err = "Couldn't reach the settings. Try again."
		} else {
			m.settings.settings = msg.settings
			m.settings.loaded = true
			m.settings.err = ""
		}
		return m, nil

	case saveNameMsg:
		return m.saveName(msg.seq)

	case restartMsg:
		if msg.res.Failed() {
			m.apply(msg.res)
			return m, nil
		}
		return m.reload()

	case bootstrapMsg:
		m.reloading = false
		if msg.err != nil {
			m.log.Error("Failed to reload game page", "error", msg.err)
			m.warn(dispatch.GenericFailure)
			return m, nil
		}
		m.reset(msg.partial)
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.showQuit:
			return m.updateQuitModal(msg)
		case m.showSettings:
			return m.updateSettings(msg)
		case m.showHistory:
			return m.updateHistory(msg)
		case m.commanding:
			return m.updateCommand(msg)
		case m.store.Current().GameOver:
			return m.updateGameOver(msg)
		}
		return m.updateMain(msg)

	case tea.MouseMsg:
		if m.showHistory {
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// apply hands a result to the store and shows any new messages as toasts,
// whether or not the snapshot changed.
func (m ConsoleUI) apply(res dispatch.Result) {
	if m.store.Apply(res.Partial) {
		if dup := actions.Build(m.store.Current().Actions).Duplicates; len(dup) > 0 {
			m.log.Warn("Several actions target the same entity", "keys", dup, "request_id", res.RequestID)
		}
	}
	if len(res.Local) > 0 {
		m.store.Append(res.Local...)
	}
	m.toasts.Observe(m.store.Current().Messages)
}

// afterApply reloads the page once the server reports the week is over.
func (m ConsoleUI) afterApply() (tea.Model, tea.Cmd) {
	if m.store.Current().GameOver && !m.reloading {
		return m.reload()
	}
	return m, nil
}

func (m ConsoleUI) reload() (tea.Model, tea.Cmd) {
	m.reloading = true
	c := m.client
	return m, func() tea.Msg {
		p, err := c.Bootstrap(context.Background(), uuid.NewString())
		return bootstrapMsg{partial: p, err: err}
	}
}

// warn shows a message generated on this side.
func (m ConsoleUI) warn(text string) {
	m.notify(text, true)
}

func (m ConsoleUI) notify(text string, isError bool) {
	m.store.Append(snapshot.NewLocalMessage(text, isError))
	m.toasts.Observe(m.store.Current().Messages)
}

// send dispatches one action digest.
func (m ConsoleUI) send(digest string) (ConsoleUI, tea.Cmd) {
	m.pending++
	disp := m.disp
	return m, func() tea.Msg {
		return dispatchMsg{res: disp.DispatchWire(context.Background(), digest)}
	}
}

// resolved acts on a gesture resolution: warn, dispatch, or nothing.
func (m ConsoleUI) resolved(res actions.Resolution) (ConsoleUI, tea.Cmd) {
	if res.Warning != "" {
		m.warn(res.Warning)
		return m, nil
	}
	if res.Dispatch() {
		return m.send(res.Digest)
	}
	return m, nil
}

func (m ConsoleUI) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.store.Current()

	switch msg.Type {
	case tea.KeyCtrlC:
		m.showQuit = true
		return m, nil
	case tea.KeyTab:
		m.focus = m.nextPanel(snap, 1)
		return m, nil
	case tea.KeyShiftTab:
		m.focus = m.nextPanel(snap, -1)
		return m, nil
	case tea.KeyUp, tea.KeyLeft:
		m.moveCursor(snap, -1)
		return m, nil
	case tea.KeyDown, tea.KeyRight:
		m.moveCursor(snap, 1)
		return m, nil
	case tea.KeyEsc:
		m.held = nil
		return m, nil
	case tea.KeyEnter:
		next, cmd := m.activate(snap)
		return next, cmd
	}

	switch msg.String() {
	case "q":
		m.showQuit = true
	case ":", "/":
		m.commanding = true
		m.command.SetValue(strings.TrimPrefix(msg.String(), ":"))
		m.command.CursorEnd()
		return m, m.command.Focus()
	case "g":
		m.pickUp(snap)
	case "h":
		m.openHistory(snap)
	case "s":
		return m.openSettings(snap)
	case "k":
		m.moveCursor(snap, -1)
	case "j":
		m.moveCursor(snap, 1)
	}
	return m, nil
}

// activate clicks the entity under the cursor.
func (m ConsoleUI) activate(snap snapshot.Snapshot) (ConsoleUI, tea.Cmd) {
	ix := actions.Build(snap.Actions)
	list := entitiesFor(m.focus, snap, ix, m.held)
	if len(list) == 0 {
		return m, nil
	}
	e := list[clampIndex(m.cursor[m.focus], len(list))]

	if e.Digest != "" {
		return m.send(e.Digest)
	}

	res := actions.Resolve(snap.Actions, ix, e.Target)
	if e.Target.Kind == actions.TargetGiftDrop && res.Dispatch() {
		m.held = nil
	}
	return m.resolved(res)
}

// pickUp holds the selected inventory item as a gift, or puts it back.
func (m *ConsoleUI) pickUp(snap snapshot.Snapshot) {
	if m.focus != panelInventory {
		return
	}
	list := entitiesFor(panelInventory, snap, actions.Build(snap.Actions), m.held)
	if len(list) == 0 {
		return
	}
	e := list[clampIndex(m.cursor[panelInventory], len(list))]
	if e.Target.ID == nil {
		return
	}
	if m.held != nil && *m.held == *e.Target.ID {
		m.held = nil
		return
	}
	id := *e.Target.ID
	m.held = &id
	m.focus = panelVillagers
}

func (m ConsoleUI) nextPanel(snap snapshot.Snapshot, dir int) panel {
	p := m.focus
	for range panelCount {
		p = panel((int(p) + dir + int(panelCount)) % int(panelCount))
		if p == panelItems && !snap.Place.HasInventory {
			continue
		}
		return p
	}
	return m.focus
}

func (m *ConsoleUI) moveCursor(snap snapshot.Snapshot, dir int) {
	n := len(entitiesFor(m.focus, snap, actions.Build(snap.Actions), m.held))
	if n == 0 {
		m.cursor[m.focus] = 0
		return
	}
	m.cursor[m.focus] = (clampIndex(m.cursor[m.focus], n) + dir + n) % n
}

func clampIndex(i, n int) int {
	return max(0, min(i, n-1))
}

func (m ConsoleUI) updateGameOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m.restart()
	case "q", "ctrl+c", "esc":
		m.showQuit = true
	}
	return m, nil
}

// restart starts a new week and reloads the page.
func (m ConsoleUI) restart() (tea.Model, tea.Cmd) {
	disp := m.disp
	return m, func() tea.Msg {
		return restartMsg{res: disp.Restart(context.Background())}
	}
}

func (m *ConsoleUI) openHistory(snap snapshot.Snapshot) {
	m.showHistory = true
	m.history.SetContent(renderHistory(snap.Messages, m.history.Width))
	m.history.GotoBottom()
}

func (m ConsoleUI) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "h", "q":
		m.showHistory = false
		return m, nil
	case "c":
		m.showHistory = false
		m.copyHistory()
		return m, nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// copyHistory puts the message log on the clipboard.
func (m ConsoleUI) copyHistory() {
	msgs := m.store.Current().Messages
	if err := m.copy(historyText(msgs)); err != nil {
		m.log.Warn("Failed to copy history", "error", err)
		m.warn("⚠️ Couldn't copy the messages to the clipboard.")
		return
	}
	m.notify(fmt.Sprintf("📋 Copied %d messages.", len(msgs)), false)
}

func (m ConsoleUI) updateQuitModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEnter:
		return m, tea.Quit
	case tea.KeyEsc:
		m.showQuit = false
		return m, nil
	}
	switch msg.String() {
	case "y", "Y", "q":
		return m, tea.Quit
	case "n", "N":
		m.showQuit = false
	}
	return m, nil
}
