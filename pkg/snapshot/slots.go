package snapshot

// MaxItems is the number of slots shown in the inventory and local item panels.
const MaxItems = 6

// Slot is an inventory cell. Item is nil for an empty slot.
type Slot struct {
	Number int
	Item   *Item
}

// Empty reports whether nothing occupies the slot.
func (s Slot) Empty() bool {
	return s.Item == nil
}

// PadSlots lays items out over at least n slots, filling the tail with empty
// slots. Items beyond n are kept.
func PadSlots(items []Item, n int) []Slot {
	size := max(len(items), n)
	slots := make([]Slot, size)
	for i := range slots {
		slots[i].Number = i
		if i < len(items) {
			slots[i].Item = &items[i]
		}
	}
	return slots
}
