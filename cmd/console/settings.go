package main

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/mythgarden-console/internal/dispatch"
	"github.com/jwebster45206/mythgarden-console/pkg/portrait"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

const (
	// NameSaveDelay is how long typing must pause before the name is saved.
	NameSaveDelay = 2 * time.Second
	MaxNameLength = 16
)

type settingsField int

const (
	fieldName settingsField = iota
	fieldPortrait
	fieldVillagersMove
	fieldBuildingHours
	fieldAdvancedCrops
	fieldDynamicShop
	fieldCount
)

type challenge struct {
	field settingsField
	key   string
	label string
	bonus int
}

var challenges = []challenge{
	{fieldVillagersMove, "draft_villagers_move", "Villagers move around", 50},
	{fieldBuildingHours, "draft_building_hours", "Buildings keep hours", 25},
	{fieldAdvancedCrops, "draft_advanced_crops", "Advanced crops", 25},
	{fieldDynamicShop, "draft_dynamic_shop", "Dynamic shop prices", 25},
}

type settingsModal struct {
	settings snapshot.Settings
	loaded   bool
	field    settingsField

	name    textinput.Model
	nameSeq int
	dirty   bool
	saved   string

	portraits []string
	portrait  int

	err string
}

func (m ConsoleUI) openSettings(snap snapshot.Snapshot) (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Your farmer's name"
	ti.CharLimit = MaxNameLength
	if !snap.Hero.IsDefaultName {
		ti.SetValue(snap.Hero.Name)
	}
	ti.Focus()

	m.settings = settingsModal{
		name:      ti,
		saved:     snap.Hero.Name,
		portraits: snap.PortraitURLs,
	}

	idx, err := portraitIndex(snap.PortraitURLs, snap.Hero.ImageURL)
	if err != nil {
		m.log.Error("Portrait gallery has a malformed url", "error", err)
		m.warn("⚠️ The portrait gallery sent a bad portrait.")
		m.settings.err = err.Error()
	}
	m.settings.portrait = idx
	m.showSettings = true

	disp := m.disp
	return m, func() tea.Msg {
		s, res := disp.FetchSettings(context.Background())
		return settingsMsg{settings: s, res: res}
	}
}

// portraitIndex finds the gallery entry showing the hero's portrait.
func portraitIndex(urls []string, current string) (int, error) {
	if current == "" {
		return 0, nil
	}
	for i, u := range urls {
		same, err := portrait.Same(u, current)
		if err != nil {
			return 0, err
		}
		if same {
			return i, nil
		}
	}
	return 0, nil
}

func (m ConsoleUI) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.settings

	switch msg.Type {
	case tea.KeyEsc:
		m.showSettings = false
		s.name.Blur()
		if s.dirty {
			return m.saveName(s.nameSeq)
		}
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focusField((s.field + 1) % fieldCount)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusField((s.field + fieldCount - 1) % fieldCount)
		return m, nil
	}

	switch s.field {
	case fieldName:
		before := s.name.Value()
		var cmd tea.Cmd
		s.name, cmd = s.name.Update(msg)
		if s.name.Value() == before {
			return m, cmd
		}
		s.nameSeq++
		s.dirty = true
		seq := s.nameSeq
		return m, tea.Batch(cmd, tea.Tick(NameSaveDelay, func(time.Time) tea.Msg {
			return saveNameMsg{seq: seq}
		}))

	case fieldPortrait:
		n := len(s.portraits)
		if n == 0 {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyLeft:
			s.portrait = (s.portrait + n - 1) % n
		case tea.KeyRight:
			s.portrait = (s.portrait + 1) % n
		case tea.KeyEnter:
			return m.savePortrait()
		}
		return m, nil
	}

	if msg.Type == tea.KeyEnter || msg.String() == " " {
		return m.toggle(s.field)
	}
	return m, nil
}

func (m *ConsoleUI) focusField(f settingsField) {
	m.settings.field = f
	if f == fieldName {
		m.settings.name.Focus()
	} else {
		m.settings.name.Blur()
	}
}

// saveName sends the typed name once typing has paused. Stale timers are
// ignored.
func (m ConsoleUI) saveName(seq int) (tea.Model, tea.Cmd) {
	s := &m.settings
	if seq != s.nameSeq || !s.dirty {
		return m, nil
	}
	s.dirty = false

	name := strings.TrimSpace(s.name.Value())
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		s.err = fmt.Sprintf("Names need 1 to %d characters.", MaxNameLength)
		return m, nil
	}
	if name == s.saved {
		return m, nil
	}
	s.saved = name
	s.err = ""
	return m, m.updateUserData(dispatch.UserData{Name: name})
}

func (m ConsoleUI) savePortrait() (tea.Model, tea.Cmd) {
	url := m.settings.portraits[m.settings.portrait]
	path, err := portrait.PathFromURL(url)
	if err != nil {
		m.log.Error("Cannot save portrait", "error", err)
		m.warn("⚠️ That portrait can't be used.")
		m.settings.err = err.Error()
		return m, nil
	}
	return m, m.updateUserData(dispatch.UserData{PortraitPath: path})
}

func (m ConsoleUI) updateUserData(data dispatch.UserData) tea.Cmd {
	disp := m.disp
	return func() tea.Msg {
		return dispatchMsg{res: disp.UpdateUserData(context.Background(), data)}
	}
}

func (m ConsoleUI) toggle(f settingsField) (tea.Model, tea.Cmd) {
	if !m.settings.loaded {
		return m, nil
	}
	for _, c := range challenges {
		if c.field != f {
			continue
		}
		draft, _ := challengeValues(m.settings.settings, f)
		changes := map[string]any{c.key: !draft}
		disp := m.disp
		return m, func() tea.Msg {
			s, res := disp.UpdateSettings(context.Background(), changes)
			return settingsMsg{settings: s, res: res}
		}
	}
	return m, nil
}

// challengeValues returns the draft and active values of a challenge.
func challengeValues(s snapshot.Settings, f settingsField) (draft, active bool) {
	switch f {
	case fieldVillagersMove:
		return s.DraftVillagersMove, s.VillagersMove
	case fieldBuildingHours:
		return s.DraftBuildingHours, s.BuildingHours
	case fieldAdvancedCrops:
		return s.DraftAdvancedCrops, s.AdvancedCrops
	case fieldDynamicShop:
		return s.DraftDynamicShop, s.DynamicShop
	}
	return false, false
}

// pendingChanges reports whether drafts differ from the running week.
func pendingChanges(s snapshot.Settings) bool {
	for _, c := range challenges {
		if draft, active := challengeValues(s, c.field); draft != active {
			return true
		}
	}
	return false
}
