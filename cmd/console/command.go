package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

const PlaceHolderText = "talk trix, go east, water parsnip, sleep, /help"

const helpText = `Tab/Shift+Tab switch panels · ↑/↓ move · Enter act
g pick up a gift, then Enter on a villager to give it · Esc drop it
: command line · h history · s settings · q quit
Commands: talk <villager>, go <direction|building>, give <item> to <villager>,
water|plant|harvest|buy|sell|stow|retrieve <item>, sleep,
/copy, /history, /settings, /restart, /quit`

type commandKind int

const (
	commandNone commandKind = iota
	commandDispatch
	commandWarn
	commandInfo
	commandCopy
	commandHistory
	commandSettings
	commandRestart
	commandQuit
)

type command struct {
	kind   commandKind
	digest string
	text   string
}

var itemVerbs = map[string]actions.Kind{
	"water":    actions.KindWater,
	"plant":    actions.KindPlant,
	"harvest":  actions.KindHarvest,
	"buy":      actions.KindBuy,
	"sell":     actions.KindSell,
	"stow":     actions.KindStow,
	"retrieve": actions.KindRetrieve,
}

// parseCommand turns a typed line into what to do. Entity names are matched
// loosely so "talk trx" still finds Trix.
func parseCommand(input string, snap snapshot.Snapshot, ix actions.Index) command {
	input = strings.TrimSpace(input)
	if input == "" {
		return command{}
	}

	switch strings.ToLower(input) {
	case "/copy":
		return command{kind: commandCopy}
	case "/history":
		return command{kind: commandHistory}
	case "/settings":
		return command{kind: commandSettings}
	case "/restart":
		return command{kind: commandRestart}
	case "/quit", "quit":
		return command{kind: commandQuit}
	case "/help", "help":
		return command{kind: commandInfo, text: helpText}
	}

	verb, arg, _ := strings.Cut(input, " ")
	verb = strings.ToLower(verb)
	arg = strings.TrimSpace(arg)

	switch verb {
	case "sleep":
		if d, ok := actions.FindUntargeted(snap.Actions, actions.KindSleep); ok {
			return command{kind: commandDispatch, digest: d.Digest}
		}
		return command{kind: commandWarn, text: "💤 You can't sleep here."}

	case "talk":
		i := closest(arg, villagerNames(snap.Villagers))
		if i < 0 {
			return notFound(arg)
		}
		v := snap.Villagers[i]
		id := v.ID
		return fromResolution(actions.Resolve(snap.Actions, ix, actions.Target{
			Kind: actions.TargetVillager, ID: &id, Name: v.Name, TalkedTo: v.HasBeenTalkedTo,
		}), v.Name)

	case "go", "travel", "walk", "enter":
		return travelCommand(arg, snap, ix)

	case "give":
		return giveCommand(arg, snap, ix)
	}

	if kind, ok := itemVerbs[verb]; ok {
		items := slices.Concat(snap.LocalItems, snap.Inventory)
		i := closest(arg, itemNames(items))
		if i < 0 {
			return notFound(arg)
		}
		if d, ok := actions.FindMatching(snap.Actions, kind, items[i].ID); ok {
			return command{kind: commandDispatch, digest: d.Digest}
		}
		return command{kind: commandWarn, text: fmt.Sprintf("🤷 You can't %s the %s right now.", verb, items[i].Name)}
	}

	return command{kind: commandWarn, text: fmt.Sprintf("❓ Unknown command %q. Try /help.", verb)}
}

func travelCommand(arg string, snap snapshot.Snapshot, ix actions.Index) command {
	var names []string
	var targets []actions.Target
	for _, a := range snap.Place.Arrows {
		id := a.ID
		names = append(names, a.Direction)
		targets = append(targets, actions.Target{Kind: actions.TargetArrow, ID: &id, Name: a.Direction})
	}
	for _, b := range snap.Buildings {
		id := b.ID
		names = append(names, b.Name)
		targets = append(targets, actions.Target{Kind: actions.TargetBuilding, ID: &id, Name: b.Name, Closed: !b.Open()})
	}

	i := closest(arg, names)
	if i < 0 {
		return notFound(arg)
	}
	return fromResolution(actions.Resolve(snap.Actions, ix, targets[i]), names[i])
}

func giveCommand(arg string, snap snapshot.Snapshot, ix actions.Index) command {
	item, who, ok := strings.Cut(arg, " to ")
	if !ok {
		fields := strings.Fields(arg)
		if len(fields) < 2 {
			return command{kind: commandWarn, text: "🎁 Give what to whom? Try: give bouquet to trix"}
		}
		item = strings.Join(fields[:len(fields)-1], " ")
		who = fields[len(fields)-1]
	}

	gi := closest(item, itemNames(snap.Inventory))
	if gi < 0 {
		return notFound(item)
	}
	vi := closest(who, villagerNames(snap.Villagers))
	if vi < 0 {
		return notFound(who)
	}

	v := snap.Villagers[vi]
	id := v.ID
	return fromResolution(actions.Resolve(snap.Actions, ix, actions.Target{
		Kind: actions.TargetGiftDrop, ID: &id, Name: v.Name, GiftID: snap.Inventory[gi].ID,
	}), v.Name)
}

func fromResolution(res actions.Resolution, name string) command {
	switch {
	case res.Warning != "":
		return command{kind: commandWarn, text: res.Warning}
	case res.Dispatch():
		return command{kind: commandDispatch, digest: res.Digest}
	}
	return command{kind: commandWarn, text: fmt.Sprintf("🤷 Nothing to do with %s right now.", name)}
}

func notFound(arg string) command {
	return command{kind: commandWarn, text: fmt.Sprintf("❓ There's nothing here called %q.", arg)}
}

// closest returns the index of the name that best matches query, or -1.
// A prefix of the name or of any of its words is an exact match.
func closest(query string, names []string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return -1
	}

	best, bestDist := -1, max(1, len([]rune(q))/3)+1
	for i, name := range names {
		d := distance(q, strings.ToLower(name))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func distance(q, name string) int {
	if strings.HasPrefix(name, q) {
		return 0
	}
	d := levenshtein.ComputeDistance(q, name)
	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, q) {
			return 0
		}
		d = min(d, levenshtein.ComputeDistance(q, word))
	}
	return d
}

func villagerNames(list []snapshot.Villager) []string {
	names := make([]string, len(list))
	for i, v := range list {
		names[i] = v.Name
	}
	return names
}

func itemNames(list []snapshot.Item) []string {
	names := make([]string, len(list))
	for i, it := range list {
		names[i] = it.Name
	}
	return names
}

func (m ConsoleUI) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commanding = false
		m.command.Reset()
		m.command.Blur()
		return m, nil
	case tea.KeyEnter:
		input := m.command.Value()
		m.commanding = false
		m.command.Reset()
		m.command.Blur()
		return m.run(input)
	}

	var cmd tea.Cmd
	m.command, cmd = m.command.Update(msg)
	return m, cmd
}

// run executes a typed command line.
func (m ConsoleUI) run(input string) (tea.Model, tea.Cmd) {
	snap := m.store.Current()
	c := parseCommand(input, snap, actions.Build(snap.Actions))

	switch c.kind {
	case commandDispatch:
		return m.send(c.digest)
	case commandWarn:
		m.warn(c.text)
	case commandInfo:
		m.notify(c.text, false)
	case commandCopy:
		m.copyHistory()
	case commandHistory:
		m.openHistory(snap)
	case commandSettings:
		return m.openSettings(snap)
	case commandRestart:
		return m.restart()
	case commandQuit:
		m.showQuit = true
	}
	return m, nil
}
