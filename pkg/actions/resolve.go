package actions

import "fmt"

// Find returns the first descriptor whose digest structurally equals want.
// Descriptors with malformed digests never match.
func Find(list []Descriptor, want Digest) (Descriptor, bool) {
	for _, d := range list {
		parsed, err := ParseDigest(d.Digest)
		if err != nil {
			continue
		}
		if parsed.Equal(want) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// FindMatching looks for the "{kind}-{entityID}" action.
func FindMatching(list []Descriptor, kind Kind, entityID int) (Descriptor, bool) {
	return Find(list, Targeted(kind, entityID))
}

// FindUntargeted looks for the "{kind}-" action, used by affordances that
// are not entities (sleeping, for instance).
func FindUntargeted(list []Descriptor, kind Kind) (Descriptor, bool) {
	return Find(list, Untargeted(kind))
}

// TargetKind is the kind of rendered entity a gesture landed on.
type TargetKind int

const (
	TargetVillager TargetKind = iota
	TargetBuilding
	TargetArrow
	TargetItem
	TargetActivity
	TargetGiftDrop
)

// Target describes a gesture on a rendered entity together with the display
// hints the renderer already knows about it.
type Target struct {
	Kind TargetKind
	// ID is nil for activities that have no entity.
	ID   *int
	Name string

	// ActionKind is the action an activity affordance fires.
	ActionKind Kind
	// GiftID is the held gift when Kind is TargetGiftDrop; ID is the villager.
	GiftID int

	Closed   bool
	TalkedTo bool
}

// Resolution is the outcome of resolving a gesture. At most one of Digest
// and Warning is set; both empty means the gesture is ignored.
type Resolution struct {
	Digest  string
	Warning string
}

// Dispatch reports whether the gesture should produce a request.
func (r Resolution) Dispatch() bool {
	return r.Digest != ""
}

// Resolve turns a gesture into a digest to dispatch, a local warning when
// the display hints explain why nothing is available, or nothing.
func Resolve(list []Descriptor, ix Index, t Target) Resolution {
	switch t.Kind {
	case TargetVillager:
		if t.ID == nil {
			return Resolution{}
		}
		if t.TalkedTo {
			return Resolution{Warning: fmt.Sprintf("💬 You already talked to %s today.", t.Name)}
		}
		return matched(FindMatching(list, KindTalk, *t.ID))

	case TargetBuilding:
		if t.ID == nil {
			return Resolution{}
		}
		if t.Closed {
			return Resolution{Warning: fmt.Sprintf("🔒 %s is closed right now.", t.Name)}
		}
		return matched(FindMatching(list, KindTravel, *t.ID))

	case TargetArrow:
		if t.ID == nil {
			return Resolution{}
		}
		return matched(FindMatching(list, KindTravel, *t.ID))

	case TargetItem:
		if t.ID == nil {
			return Resolution{}
		}
		for _, kind := range ItemKinds {
			if d, ok := FindMatching(list, kind, *t.ID); ok {
				return Resolution{Digest: d.Digest}
			}
		}
		return Resolution{}

	case TargetActivity:
		if t.ActionKind == "" {
			return Resolution{}
		}
		if t.ID == nil {
			return matched(FindUntargeted(list, t.ActionKind))
		}
		return matched(FindMatching(list, t.ActionKind, *t.ID))

	case TargetGiftDrop:
		if t.ID == nil {
			return Resolution{}
		}
		if !ix.IsGiftRecipient(*t.ID) {
			return Resolution{Warning: fmt.Sprintf("🎁 %s can't accept gifts right now.", t.Name)}
		}
		return matched(Find(list, Gift(t.GiftID, *t.ID)))
	}

	return Resolution{}
}

func matched(d Descriptor, ok bool) Resolution {
	if !ok {
		return Resolution{}
	}
	return Resolution{Digest: d.Digest}
}
