package fixture

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

type villagerState struct {
	snapshot.Villager
	PlaceID int `json:"placeId"`
}

// Session is one player's run, persisted as JSON between requests.
type Session struct {
	ID        string `json:"id"`
	CSRFToken string `json:"csrfToken"`

	Hero      snapshot.Hero      `json:"hero"`
	Day       int                `json:"day"`
	Minute    int                `json:"minute"`
	Koin      int                `json:"koin"`
	PlaceID   int                `json:"placeId"`
	Inventory []Item             `json:"inventory"`
	Local     map[int][]Item     `json:"local"`
	Villagers []villagerState    `json:"villagers"`
	Messages  []snapshot.Message `json:"messages"`
	Dialogue  *snapshot.Dialogue `json:"dialogue,omitempty"`
	Settings  snapshot.Settings  `json:"settings"`
	GameOver  bool               `json:"gameOver"`

	NextMessageID  int `json:"nextMessageId"`
	NextDialogueID int `json:"nextDialogueId"`
	NextItemID     int `json:"nextItemId"`

	// fresh lists the snapshot keys changed by the current request.
	fresh map[string]struct{}
}

// NewSession starts a run at the beginning of the week.
func NewSession() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CSRFToken: uuid.NewString(),
		Hero: snapshot.Hero{
			Name:              "Farmer",
			IsDefaultName:     true,
			IsDefaultPortrait: true,
			ImageURL:          PortraitURL(portraitNames[0]),
			LuckPercent:       "0%",
		},
		Settings: snapshot.Settings{ScoreMultiplier: 1, DraftScoreMultiplier: 1},
	}
	s.reset()
	return s
}

// reset rewinds the run to day one, keeping identity, profile and settings.
func (s *Session) reset() {
	s.Day = 1
	s.Minute = StartMinute
	s.Koin = StartKoin
	s.PlaceID = StartPlace
	s.Inventory = startingInventory()
	s.Local = map[int][]Item{
		PlaceFarm: startingFarm(),
		PlaceShop: startingShop(),
	}
	s.Villagers = make([]villagerState, len(villagerDefs))
	for i, v := range villagerDefs {
		s.Villagers[i] = villagerState{Villager: v, PlaceID: villagerHome[v.ID]}
	}
	s.Messages = nil
	s.Dialogue = nil
	s.GameOver = false
	s.Hero.Score = 0
	s.Hero.KoinEarned = 0
	s.Hero.HeartsEarned = 0
	s.NextItemID = 100
	s.message("🌄 A new week begins in Mythgarden.", false)
}

func (s *Session) message(text string, isError bool) {
	s.NextMessageID++
	s.Messages = append(s.Messages, snapshot.Message{ID: s.NextMessageID, Text: text, IsError: isError})
	if len(s.Messages) > maxMessages {
		s.Messages = slices.Clone(s.Messages[len(s.Messages)-maxMessages:])
	}
	s.markFresh(keyMessages)
}

func (s *Session) markFresh(keys ...string) {
	if s.fresh == nil {
		s.fresh = make(map[string]struct{})
	}
	for _, k := range keys {
		s.fresh[k] = struct{}{}
	}
}

// takeFresh returns and clears the keys changed since the last call.
func (s *Session) takeFresh() []string {
	keys := slices.Sorted(maps.Keys(s.fresh))
	s.fresh = nil
	return keys
}

func (s *Session) open(placeID int) bool {
	p := places[placeID]
	if p.Hours == [2]int{} {
		return true
	}
	return s.Minute >= p.Hours[0] && s.Minute < p.Hours[1]
}

func (s *Session) villagersAt(placeID int) []villagerState {
	var out []villagerState
	for _, v := range s.Villagers {
		if v.PlaceID == placeID {
			out = append(out, v)
		}
	}
	return out
}

func (s *Session) villager(id int) *villagerState {
	for i := range s.Villagers {
		if s.Villagers[i].ID == id {
			return &s.Villagers[i]
		}
	}
	return nil
}

func itemViews(items []Item) []snapshot.Item {
	out := make([]snapshot.Item, len(items))
	for i, it := range items {
		out[i] = it.Item
	}
	return out
}

// View renders the full snapshot of the session.
func (s *Session) View() snapshot.Snapshot {
	p := places[s.PlaceID]

	buildings := make([]snapshot.Building, 0, len(p.Buildings))
	for _, id := range p.Buildings {
		isOpen := s.open(id)
		buildings = append(buildings, snapshot.Building{Name: places[id].Name, ID: id, IsOpen: &isOpen})
	}

	var activities []snapshot.Activity
	if s.PlaceID == PlaceHome {
		activities = append(activities, snapshot.Activity{ActionType: actions.KindSleep})
	}

	var villagers []snapshot.Villager
	for _, v := range s.villagersAt(s.PlaceID) {
		villagers = append(villagers, v.Villager)
	}

	return snapshot.Snapshot{
		Hero: s.Hero,
		Clock: snapshot.Clock{
			Display:     dayDisplay(s.Day) + " " + timeDisplay(s.Minute),
			DayDisplay:  dayDisplay(s.Day),
			TimeDisplay: timeDisplay(s.Minute),
			Time:        s.Minute,
			DayNumber:   s.Day,
		},
		Wallet: wallet(s.Koin),
		Place: snapshot.Place{
			Name:         p.Name,
			ID:           s.PlaceID,
			HasInventory: p.HasInventory,
			Arrows:       p.Arrows,
			Activities:   activities,
		},
		Inventory:    itemViews(s.Inventory),
		Buildings:    buildings,
		LocalItems:   itemViews(s.Local[s.PlaceID]),
		Villagers:    villagers,
		Actions:      Generate(s),
		Messages:     s.Messages,
		Dialogue:     s.Dialogue,
		PortraitURLs: portraitURLs(),
		GameOver:     s.GameOver,
	}
}

// Snapshot keys as the server names them.
const (
	keyAchievements = "achievements"
	keyActions      = "actions"
	keyBuildings    = "buildings"
	keyClock        = "clock"
	keyDialogue     = "dialogue"
	keyHero         = "hero"
	keyInventory    = "inventory"
	keyLocalItems   = "localItemTokens"
	keyMessages     = "messages"
	keyPlace        = "place"
	keyPortraitURLs = "portraitUrls"
	keyVillagers    = "villagerStates"
	keyWallet       = "wallet"
)

// Pick builds a partial holding only the named keys of the view.
func Pick(view snapshot.Snapshot, keys []string) snapshot.Partial {
	var p snapshot.Partial
	full := snapshot.Full(view)
	for _, k := range keys {
		switch k {
		case keyAchievements:
			p.Achievements = full.Achievements
		case keyActions:
			p.Actions = full.Actions
		case keyBuildings:
			p.Buildings = full.Buildings
		case keyClock:
			p.Clock = full.Clock
		case keyDialogue:
			p.Dialogue = full.Dialogue
		case keyHero:
			p.Hero = full.Hero
		case keyInventory:
			p.Inventory = full.Inventory
		case keyLocalItems:
			p.LocalItems = full.LocalItems
		case keyMessages:
			p.Messages = full.Messages
		case keyPlace:
			p.Place = full.Place
		case keyPortraitURLs:
			p.PortraitURLs = full.PortraitURLs
		case keyVillagers:
			p.Villagers = full.Villagers
		case keyWallet:
			p.Wallet = full.Wallet
		}
	}
	return p
}
