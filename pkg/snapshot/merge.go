package snapshot

// Merge applies the fields present in p over a shallow copy of prev. The
// dialogue is cleared first so it only survives when p supplies it again.
func Merge(prev Snapshot, p Partial) Snapshot {
	next := prev
	next.Dialogue = nil

	if p.Hero != nil {
		next.Hero = *p.Hero
	}
	if p.Clock != nil {
		next.Clock = *p.Clock
	}
	if p.Wallet != nil {
		next.Wallet = *p.Wallet
	}
	if p.Place != nil {
		next.Place = *p.Place
	}
	if p.Inventory != nil {
		next.Inventory = p.Inventory
	}
	if p.Buildings != nil {
		next.Buildings = p.Buildings
	}
	if p.LocalItems != nil {
		next.LocalItems = p.LocalItems
	}
	if p.Villagers != nil {
		next.Villagers = p.Villagers
	}
	if p.Actions != nil {
		next.Actions = p.Actions
	}
	if p.Messages != nil {
		next.Messages = p.Messages
	}
	if p.Dialogue != nil {
		next.Dialogue = p.Dialogue
	}
	if p.Achievements != nil {
		next.Achievements = p.Achievements
	}
	if p.PortraitURLs != nil {
		next.PortraitURLs = p.PortraitURLs
	}
	if p.Settings != nil {
		next.Settings = p.Settings
	}
	if p.GameOver != nil {
		next.GameOver = *p.GameOver
	}

	return next
}
