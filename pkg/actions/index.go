package actions

import (
	"fmt"
	"slices"
)

// NoEntityKey is the index key for actions without a target entity.
const NoEntityKey = "no-entity"

// Pill is the display subset of a Descriptor shown on an entity.
type Pill struct {
	Emoji      string
	CostAmount *int
	CostType   CostType
	WaitClass  WaitClass
}

// HasCost reports whether the pill carries a cost to display.
func (p Pill) HasCost() bool {
	return p.CostAmount != nil && p.CostType != ""
}

// EntityKey formats the index key for an entity.
func EntityKey(t EntityType, id int) string {
	return fmt.Sprintf("%s-%d", t, id)
}

// GiftKey formats the index key for gift actions aimed at a receiver.
func GiftKey(receiverID int) string {
	return EntityKey(EntityGift, receiverID)
}

// KeyFor computes the index key of a descriptor. When the server omits the
// target fields the key is inferred from the digest.
func KeyFor(d Descriptor) string {
	if receiver, ok := giftReceiver(d); ok {
		return GiftKey(receiver)
	}
	if d.EntityType != EntityNone && d.EntityID != nil {
		return EntityKey(d.EntityType, *d.EntityID)
	}

	parsed, err := ParseDigest(d.Digest)
	if err != nil || len(parsed.IDs) != 1 {
		return NoEntityKey
	}
	if t := targetTypeOf(parsed.Kind); t != EntityNone {
		return EntityKey(t, parsed.IDs[0])
	}
	return NoEntityKey
}

func giftReceiver(d Descriptor) (int, bool) {
	if d.GiftReceiverID != nil {
		return *d.GiftReceiverID, true
	}
	parsed, err := ParseDigest(d.Digest)
	if err == nil && parsed.Kind == KindGive && len(parsed.IDs) == 2 {
		return parsed.IDs[1], true
	}
	return 0, false
}

func targetTypeOf(kind Kind) EntityType {
	switch kind {
	case KindTalk:
		return EntityVillager
	case KindTravel, KindGather:
		return EntityPlace
	}
	if slices.Contains(ItemKinds, kind) {
		return EntityItem
	}
	return EntityNone
}

// Index maps entity keys to the pill of their currently available action.
// It is derived from the action list and rebuilt on every render.
type Index struct {
	pills          map[string]Pill
	giftRecipients map[int]struct{}

	// Duplicates lists non-gift keys that more than one descriptor mapped to.
	// The last descriptor for a key wins.
	Duplicates []string
}

// Build indexes the current action list in one pass.
func Build(list []Descriptor) Index {
	ix := Index{
		pills:          make(map[string]Pill, len(list)),
		giftRecipients: make(map[int]struct{}),
	}

	for _, d := range list {
		key := KeyFor(d)
		if receiver, ok := giftReceiver(d); ok {
			ix.giftRecipients[receiver] = struct{}{}
		} else if _, exists := ix.pills[key]; exists && !slices.Contains(ix.Duplicates, key) {
			ix.Duplicates = append(ix.Duplicates, key)
		}

		ix.pills[key] = Pill{
			Emoji:      d.Emoji,
			CostAmount: d.CostAmount,
			CostType:   d.CostType,
			WaitClass:  d.WaitClass,
		}
	}

	return ix
}

// Pill returns the pill stored at key.
func (ix Index) Pill(key string) (Pill, bool) {
	p, ok := ix.pills[key]
	return p, ok
}

// PillFor is shorthand for Pill(EntityKey(t, id)).
func (ix Index) PillFor(t EntityType, id int) (Pill, bool) {
	return ix.Pill(EntityKey(t, id))
}

// IsGiftRecipient reports whether some gift action this turn targets villagerID.
func (ix Index) IsGiftRecipient(villagerID int) bool {
	_, ok := ix.giftRecipients[villagerID]
	return ok
}

// GiftRecipients returns the sorted receiver ids.
func (ix Index) GiftRecipients() []int {
	ids := make([]int, 0, len(ix.giftRecipients))
	for id := range ix.giftRecipients {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of keys in the index.
func (ix Index) Len() int {
	return len(ix.pills)
}
