package fixture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

// ValidationError is a rejected request. Its text is shown to the player.
type ValidationError struct {
	Text string
}

func (e *ValidationError) Error() string {
	return e.Text
}

const (
	unavailableText  = "⚠️ Oops, that action isn't available"
	unaffordableText = "⚠️ You don't have enough fleurs to afford that right now"
)

const (
	kindRipe = "ripe"

	travelMinutes  = 15
	talkMinutes    = 10
	giveMinutes    = 5
	waterMinutes   = 5
	plantMinutes   = 10
	harvestMinutes = 10
	shopMinutes    = 5
	lastMinute     = 24*60 - 1
)

func cost(minutes int, class actions.WaitClass) (*int, actions.CostType, actions.WaitClass) {
	return &minutes, actions.CostTime, class
}

func descriptor(kind actions.Kind, entity actions.EntityType, id int, emoji, description string) actions.Descriptor {
	entityID := id
	return actions.Descriptor{
		Description: description,
		Emoji:       emoji,
		EntityType:  entity,
		EntityID:    &entityID,
		Digest:      actions.Targeted(kind, id).String(),
	}
}

func timed(d actions.Descriptor, minutes int, class actions.WaitClass) actions.Descriptor {
	d.CostAmount, d.CostType, d.WaitClass = cost(minutes, class)
	return d
}

func priced(d actions.Descriptor, koin int) actions.Descriptor {
	amount := koin
	d.CostAmount = &amount
	d.CostType = actions.CostMoney
	return d
}

// Generate lists the actions legal for the session right now.
func Generate(s *Session) []actions.Descriptor {
	list := []actions.Descriptor{}
	if s.GameOver {
		return list
	}
	place := places[s.PlaceID]

	for _, arrow := range place.Arrows {
		d := descriptor(actions.KindTravel, actions.EntityPlace, arrow.ID, "🚶", "Walk to "+places[arrow.ID].Name)
		list = append(list, timed(d, travelMinutes, actions.WaitSmall))
	}
	for _, id := range place.Buildings {
		if !s.open(id) {
			continue
		}
		d := descriptor(actions.KindTravel, actions.EntityPlace, id, "🚪", "Enter "+places[id].Name)
		list = append(list, timed(d, travelMinutes, actions.WaitSmall))
	}

	for _, v := range s.villagersAt(s.PlaceID) {
		if !v.HasBeenTalkedTo {
			d := descriptor(actions.KindTalk, actions.EntityVillager, v.ID, "💬", "Talk to "+v.Name)
			list = append(list, timed(d, talkMinutes, actions.WaitSmallMinus))
		}
		if v.HasBeenGivenGift {
			continue
		}
		for _, it := range s.Inventory {
			if it.Kind != kindGift {
				continue
			}
			receiver := v.ID
			d := descriptor(actions.KindGive, actions.EntityGift, it.ID, "🎁", fmt.Sprintf("Give %s to %s", it.Name, v.Name))
			d.GiftReceiverID = &receiver
			d.Digest = actions.Gift(it.ID, v.ID).String()
			list = append(list, timed(d, giveMinutes, actions.WaitTrivialPlus))
		}
	}

	switch s.PlaceID {
	case PlaceFarm:
		for _, it := range s.Local[PlaceFarm] {
			switch {
			case it.Kind == kindCrop && !it.HasBeenWatered:
				d := descriptor(actions.KindWater, actions.EntityItem, it.ID, "💧", "Water "+it.Name)
				list = append(list, timed(d, waterMinutes, actions.WaitTrivial))
			case it.Kind == kindRipe:
				d := descriptor(actions.KindHarvest, actions.EntityItem, it.ID, "🧺", "Harvest "+it.Name)
				list = append(list, timed(d, harvestMinutes, actions.WaitSmallMinus))
			}
		}
		if len(s.Local[PlaceFarm]) < snapshot.MaxItems {
			for _, it := range s.Inventory {
				if it.Kind == kindSeed {
					d := descriptor(actions.KindPlant, actions.EntityItem, it.ID, "🌱", "Plant "+it.Name)
					list = append(list, timed(d, plantMinutes, actions.WaitSmallMinus))
				}
			}
		}

	case PlaceShop:
		if len(s.Inventory) < snapshot.MaxItems {
			for _, it := range s.Local[PlaceShop] {
				d := descriptor(actions.KindBuy, actions.EntityItem, it.ID, "🪙", "Buy "+it.Name)
				list = append(list, priced(d, it.Price))
			}
		}
		for _, it := range s.Inventory {
			if it.Kind == kindSeed {
				continue
			}
			d := descriptor(actions.KindSell, actions.EntityItem, it.ID, "💰", "Sell "+it.Name)
			list = append(list, priced(d, it.Price))
		}

	case PlaceHome:
		list = append(list, actions.Descriptor{
			Description: "Sleep until morning",
			Emoji:       "💤",
			Digest:      actions.Untargeted(actions.KindSleep).String(),
		})
	}

	return list
}

// Apply executes the action with the given digest. A rejected action adds
// an error message to the session and returns a *ValidationError.
func Apply(s *Session, digest string) error {
	var chosen *actions.Descriptor
	for _, d := range Generate(s) {
		if d.Digest == digest {
			chosen = &d
			break
		}
	}
	if chosen == nil {
		return s.reject(unavailableText)
	}

	parsed, err := actions.ParseDigest(digest)
	if err != nil {
		return s.reject(unavailableText)
	}

	if chosen.CostType == actions.CostMoney && parsed.Kind == actions.KindBuy && s.Koin < *chosen.CostAmount {
		return s.reject(unaffordableText)
	}

	switch parsed.Kind {
	case actions.KindTravel:
		s.travel(parsed.IDs[0])
	case actions.KindTalk:
		s.talk(parsed.IDs[0])
	case actions.KindGive:
		s.give(parsed.IDs[0], parsed.IDs[1])
	case actions.KindWater:
		s.water(parsed.IDs[0])
	case actions.KindPlant:
		s.plant(parsed.IDs[0])
	case actions.KindHarvest:
		s.harvest(parsed.IDs[0])
	case actions.KindBuy:
		s.buy(parsed.IDs[0])
	case actions.KindSell:
		s.sell(parsed.IDs[0])
	case actions.KindSleep:
		s.sleep()
		return nil
	default:
		return s.reject(unavailableText)
	}

	if chosen.CostType == actions.CostTime && chosen.CostAmount != nil {
		s.Minute = min(s.Minute+*chosen.CostAmount, lastMinute)
	} else {
		s.Minute = min(s.Minute+shopMinutes, lastMinute)
	}
	s.markFresh(keyClock, keyActions, keyBuildings)
	return nil
}

func (s *Session) reject(text string) error {
	s.message(text, true)
	return &ValidationError{Text: text}
}

func (s *Session) travel(to int) {
	s.PlaceID = to
	s.message(fmt.Sprintf("🚶 You made your way to the %s.", places[to].Name), false)
	s.markFresh(keyPlace, keyBuildings, keyLocalItems, keyVillagers)
}

func (s *Session) talk(villagerID int) {
	v := s.villager(villagerID)
	v.HasBeenTalkedTo = true
	s.addHearts(v, 1)

	s.NextDialogueID++
	affinity := v.Affinity
	s.Dialogue = &snapshot.Dialogue{
		ID:       s.NextDialogueID,
		Name:     v.Name,
		ImageURL: v.ImageURL,
		FullText: greetings[v.ID],
		Affinity: &affinity,
	}
	s.message(fmt.Sprintf("💬 You chatted with %s.", v.Name), false)
	s.markFresh(keyDialogue, keyVillagers, keyHero)
}

func (s *Session) give(itemID, villagerID int) {
	i, _ := findItem(s.Inventory, itemID)
	gift := s.Inventory[i]
	s.Inventory = append(s.Inventory[:i:i], s.Inventory[i+1:]...)

	v := s.villager(villagerID)
	v.HasBeenGivenGift = true
	s.addHearts(v, 2)

	s.message(fmt.Sprintf("🎁 %s loved the %s!", v.Name, gift.Name), false)
	s.markFresh(keyInventory, keyVillagers, keyHero)
}

func (s *Session) water(itemID int) {
	farm := s.Local[PlaceFarm]
	i, _ := findItem(farm, itemID)
	farm[i].HasBeenWatered = true
	s.message(fmt.Sprintf("💧 You watered the %s.", farm[i].Name), false)
	s.markFresh(keyLocalItems)
}

func (s *Session) plant(itemID int) {
	i, _ := findItem(s.Inventory, itemID)
	seed := s.Inventory[i]
	s.Inventory = append(s.Inventory[:i:i], s.Inventory[i+1:]...)

	s.NextItemID++
	name := strings.TrimSuffix(seed.Name, " Seeds")
	crop := Item{
		Item:  snapshot.Item{Name: name, Rarity: seed.Rarity, Emoji: "🌿", ID: s.NextItemID},
		Kind:  kindCrop,
		Price: seed.Price * 2,
	}
	s.Local[PlaceFarm] = append(s.Local[PlaceFarm], crop)
	s.message(fmt.Sprintf("🌱 You planted the %s.", seed.Name), false)
	s.markFresh(keyInventory, keyLocalItems)
}

func (s *Session) harvest(itemID int) {
	farm := s.Local[PlaceFarm]
	i, _ := findItem(farm, itemID)
	crop := farm[i]
	s.Local[PlaceFarm] = append(farm[:i:i], farm[i+1:]...)

	crop.Kind = kindGoods
	crop.HasBeenWatered = false
	s.Inventory = append(s.Inventory, crop)
	s.message(fmt.Sprintf("🧺 You harvested the %s.", crop.Name), false)
	s.markFresh(keyInventory, keyLocalItems)
}

func (s *Session) buy(itemID int) {
	shop := s.Local[PlaceShop]
	i, _ := findItem(shop, itemID)
	item := shop[i]
	s.Local[PlaceShop] = append(shop[:i:i], shop[i+1:]...)

	s.Koin -= item.Price
	s.Inventory = append(s.Inventory, item)
	s.message(fmt.Sprintf("🪙 You bought %s for %s.", item.Name, wallet(item.Price)), false)
	s.markFresh(keyWallet, keyInventory, keyLocalItems)
}

func (s *Session) sell(itemID int) {
	i, _ := findItem(s.Inventory, itemID)
	item := s.Inventory[i]
	s.Inventory = append(s.Inventory[:i:i], s.Inventory[i+1:]...)

	s.Koin += item.Price
	s.Hero.KoinEarned += item.Price
	s.rescore()
	s.message(fmt.Sprintf("💰 You sold %s for %s.", item.Name, wallet(item.Price)), false)
	s.markFresh(keyWallet, keyInventory, keyHero)
}

func (s *Session) sleep() {
	s.Day++
	s.markFresh(keyClock, keyActions, keyHero, keyMessages)

	if s.Day > LastDay {
		s.GameOver = true
		s.Hero.HighScore = max(s.Hero.HighScore, s.Hero.Score)
		s.message(fmt.Sprintf("🏁 The week is over. Final score: %d.", s.Hero.Score), false)
		return
	}

	s.Minute = WakeMinute
	for i := range s.Villagers {
		s.Villagers[i].HasBeenTalkedTo = false
		s.Villagers[i].HasBeenGivenGift = false
	}
	farm := s.Local[PlaceFarm]
	for i := range farm {
		if farm[i].Kind == kindCrop && farm[i].HasBeenWatered {
			farm[i].Kind = kindRipe
			farm[i].Emoji = "✨"
		}
		farm[i].HasBeenWatered = false
	}
	s.message(fmt.Sprintf("💤 You slept soundly. Good morning, %s!", dayDisplay(s.Day)), false)
	s.markFresh(keyVillagers, keyLocalItems, keyBuildings)
}

func (s *Session) addHearts(v *villagerState, n int) {
	before := v.Affinity.WholeHearts
	v.Affinity.WholeHearts = min(v.Affinity.WholeHearts+n, v.Affinity.MaxHearts)
	s.Hero.HeartsEarned += v.Affinity.WholeHearts - before
	s.rescore()
}

func (s *Session) rescore() {
	base := s.Hero.KoinEarned + 10*s.Hero.HeartsEarned
	s.Hero.Score = int(float64(base) * s.Settings.ScoreMultiplier)
}

// SetUserData updates the hero's name and portrait. It returns the
// confirmation message, or "" when nothing changed.
func SetUserData(s *Session, name, portraitPath string) (string, error) {
	var updated []string

	if name != "" && name != s.Hero.Name {
		if len([]rune(name)) > maxNameLen {
			return "", s.reject(fmt.Sprintf("⚠️ Names can be at most %d characters", maxNameLen))
		}
		s.Hero.Name = name
		s.Hero.IsDefaultName = false
		updated = append(updated, "farmer name")
	}

	if portraitPath != "" {
		portrait, ok := validPortraitPath(portraitPath)
		if !ok {
			return "", s.reject("⚠️ That portrait doesn't exist")
		}
		if url := PortraitURL(portrait); url != s.Hero.ImageURL {
			s.Hero.ImageURL = url
			s.Hero.IsDefaultPortrait = false
			updated = append(updated, "portrait")
		}
	}

	if len(updated) == 0 {
		return "", nil
	}
	text := fmt.Sprintf("Saved new %s!", strings.Join(updated, " & "))
	s.message(text, false)
	return text, nil
}

var settingBonus = map[string]float64{
	"villagers_move": 0.50,
	"building_hours": 0.25,
	"advanced_crops": 0.25,
	"dynamic_shop":   0.25,
}

var ErrUnknownSetting = errors.New("unknown setting")

// UpdateSettings applies draft toggles. Only draft_* keys are accepted;
// active values change on the next run.
func UpdateSettings(s *Session, changes map[string]any) error {
	for key, value := range changes {
		on, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s must be a boolean", ErrUnknownSetting, key)
		}
		switch key {
		case "draft_villagers_move":
			s.Settings.DraftVillagersMove = on
		case "draft_building_hours":
			s.Settings.DraftBuildingHours = on
		case "draft_advanced_crops":
			s.Settings.DraftAdvancedCrops = on
		case "draft_dynamic_shop":
			s.Settings.DraftDynamicShop = on
		default:
			return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
		}
	}
	s.Settings.DraftScoreMultiplier = multiplier(
		s.Settings.DraftVillagersMove, s.Settings.DraftBuildingHours,
		s.Settings.DraftAdvancedCrops, s.Settings.DraftDynamicShop)
	return nil
}

func multiplier(villagersMove, buildingHours, advancedCrops, dynamicShop bool) float64 {
	m := 1.0
	for key, on := range map[string]bool{
		"villagers_move": villagersMove,
		"building_hours": buildingHours,
		"advanced_crops": advancedCrops,
		"dynamic_shop":   dynamicShop,
	} {
		if on {
			m += settingBonus[key]
		}
	}
	return m
}

// Restart begins a new run, promoting draft settings to active.
func Restart(s *Session) {
	st := &s.Settings
	st.VillagersMove = st.DraftVillagersMove
	st.BuildingHours = st.DraftBuildingHours
	st.AdvancedCrops = st.DraftAdvancedCrops
	st.DynamicShop = st.DraftDynamicShop
	st.ScoreMultiplier = st.DraftScoreMultiplier
	s.reset()
}
