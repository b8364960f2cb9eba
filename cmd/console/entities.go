package main

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

type panel int

const (
	panelActions panel = iota
	panelPlace
	panelVillagers
	panelItems
	panelInventory
	panelCount
)

var panelTitles = [panelCount]string{
	panelActions:   "Actions",
	panelPlace:     "Location",
	panelVillagers: "Villagers",
	panelItems:     "Here",
	panelInventory: "Inventory",
}

const maxLabelWidth = 22

var titleCase = cases.Title(language.English)

// entity is one selectable row of a panel.
type entity struct {
	Label  string
	Target actions.Target
	// Digest is set for rows of the actions panel, which dispatch directly.
	Digest    string
	Pill      actions.Pill
	HasPill   bool
	Highlight bool
	Dim       bool
}

// entitiesFor lists the rows of a panel for the current snapshot. held is
// the gift being carried, if any.
func entitiesFor(p panel, snap snapshot.Snapshot, ix actions.Index, held *int) []entity {
	switch p {
	case panelActions:
		return actionEntities(snap.Actions)
	case panelPlace:
		return placeEntities(snap, ix)
	case panelVillagers:
		return villagerEntities(snap.Villagers, ix, held)
	case panelItems:
		if !snap.Place.HasInventory {
			return nil
		}
		return itemEntities(snapshot.PadSlots(snap.LocalItems, snapshot.MaxItems), ix, nil)
	case panelInventory:
		return itemEntities(snapshot.PadSlots(snap.Inventory, snapshot.MaxItems), ix, held)
	}
	return nil
}

func actionEntities(list []actions.Descriptor) []entity {
	out := make([]entity, 0, len(list))
	for _, d := range list {
		out = append(out, entity{
			Label:   truncate.StringWithTail(strings.TrimSpace(d.Emoji+" "+d.Description), maxLabelWidth+8, "…"),
			Digest:  d.Digest,
			Pill:    actions.Pill{Emoji: d.Emoji, CostAmount: d.CostAmount, CostType: d.CostType, WaitClass: d.WaitClass},
			HasPill: d.CostAmount != nil,
		})
	}
	return out
}

func placeEntities(snap snapshot.Snapshot, ix actions.Index) []entity {
	var out []entity
	for _, a := range snap.Place.Arrows {
		id := a.ID
		e := entity{
			Label:  "➜ " + titleCase.String(a.Direction),
			Target: actions.Target{Kind: actions.TargetArrow, ID: &id, Name: a.Direction},
		}
		e.Pill, e.HasPill = ix.PillFor(actions.EntityPlace, id)
		out = append(out, e)
	}
	for _, b := range snap.Buildings {
		id := b.ID
		label := "🏠 " + b.Name
		if !b.Open() {
			label += " (closed)"
		}
		e := entity{
			Label:  label,
			Target: actions.Target{Kind: actions.TargetBuilding, ID: &id, Name: b.Name, Closed: !b.Open()},
			Dim:    !b.Open(),
		}
		e.Pill, e.HasPill = ix.PillFor(actions.EntityPlace, id)
		out = append(out, e)
	}
	for _, act := range snap.Place.Activities {
		digest := actions.Untargeted(act.ActionType)
		if act.ID != nil {
			digest = actions.Targeted(act.ActionType, *act.ID)
		}
		e := entity{
			Label:  "✦ " + titleCase.String(strings.ToLower(string(act.ActionType))),
			Target: actions.Target{Kind: actions.TargetActivity, ID: act.ID, ActionKind: act.ActionType},
		}
		e.Pill, e.HasPill = ix.Pill(actions.KeyFor(actions.Descriptor{Digest: digest.String()}))
		out = append(out, e)
	}
	return out
}

func villagerEntities(list []snapshot.Villager, ix actions.Index, held *int) []entity {
	out := make([]entity, 0, len(list))
	for _, v := range list {
		id := v.ID
		e := entity{
			Label:  fmt.Sprintf("%s %s", v.Name, hearts(v.Affinity)),
			Target: actions.Target{Kind: actions.TargetVillager, ID: &id, Name: v.Name, TalkedTo: v.HasBeenTalkedTo},
		}
		if held != nil {
			e.Target = actions.Target{Kind: actions.TargetGiftDrop, ID: &id, Name: v.Name, GiftID: *held}
			e.Highlight = ix.IsGiftRecipient(id)
			e.Dim = !e.Highlight
			e.Pill, e.HasPill = ix.Pill(actions.GiftKey(id))
		} else {
			e.Pill, e.HasPill = ix.PillFor(actions.EntityVillager, id)
		}
		out = append(out, e)
	}
	return out
}

func itemEntities(slots []snapshot.Slot, ix actions.Index, held *int) []entity {
	out := make([]entity, 0, len(slots))
	for _, slot := range slots {
		if slot.Empty() {
			out = append(out, entity{Label: "·", Target: actions.Target{Kind: actions.TargetItem}, Dim: true})
			continue
		}
		it := *slot.Item
		id := it.ID
		label := it.Emoji + " " + it.Name
		if it.Quantity != nil && *it.Quantity > 1 {
			label = fmt.Sprintf("%s ×%d", label, *it.Quantity)
		}
		if it.HasBeenWatered {
			label += " 💧"
		}
		e := entity{
			Label:     truncate.StringWithTail(label, maxLabelWidth, "…"),
			Target:    actions.Target{Kind: actions.TargetItem, ID: &id, Name: it.Name},
			Highlight: held != nil && *held == id,
		}
		e.Pill, e.HasPill = ix.PillFor(actions.EntityItem, id)
		out = append(out, e)
	}
	return out
}

func hearts(a snapshot.Affinity) string {
	if a.MaxHearts == 0 {
		return ""
	}
	return fmt.Sprintf("♥ %d/%d", a.WholeHearts, a.MaxHearts)
}
