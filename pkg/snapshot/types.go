package snapshot

import (
	"fmt"

	"github.com/jwebster45206/mythgarden-console/pkg/actions"
)

// Hero is the player character summary shown in the top bar.
type Hero struct {
	Name              string `json:"name"`
	IsDefaultName     bool   `json:"isDefaultName"`
	IsDefaultPortrait bool   `json:"isDefaultPortrait"`
	ImageURL          string `json:"imageUrl"`
	Score             int    `json:"score"`
	HighScore         int    `json:"highScore"`
	KoinEarned        int    `json:"koinEarned"`
	HeartsEarned      int    `json:"heartsEarned"`
	BoostLevel        int    `json:"boostLevel"`
	LuckPercent       string `json:"luckPercent"`
	AchievementsCount int    `json:"achievementsCount"`
}

// Clock is the in-game time. Time is minutes since midnight (0-1439).
type Clock struct {
	Display     string `json:"display,omitempty"`
	DayDisplay  string `json:"dayDisplay,omitempty"`
	TimeDisplay string `json:"timeDisplay,omitempty"`
	Time        int    `json:"time"`
	DayNumber   int    `json:"dayNumber"`
}

// Label returns the display string, composing it from its parts when the
// server sent only day and time separately.
func (c Clock) Label() string {
	if c.Display != "" {
		return c.Display
	}
	if c.DayDisplay != "" || c.TimeDisplay != "" {
		return fmt.Sprintf("%s %s", c.DayDisplay, c.TimeDisplay)
	}
	return fmt.Sprintf("Day %d %02d:%02d", c.DayNumber, c.Time/60, c.Time%60)
}

type Arrow struct {
	Direction string `json:"direction"`
	ID        int    `json:"id"`
}

// Activity is a non-item affordance at a place, such as a bed to sleep in.
// ID is nil for activities that do not target an entity.
type Activity struct {
	ActionType actions.Kind `json:"actionType"`
	ID         *int         `json:"id,omitempty"`
	ImageURL   string       `json:"imageUrl"`
}

type Place struct {
	Name         string     `json:"name"`
	ImageURL     string     `json:"imageUrl"`
	ID           int        `json:"id"`
	HasInventory bool       `json:"hasInventory"`
	Arrows       []Arrow    `json:"arrows"`
	Activities   []Activity `json:"activities"`
}

type Item struct {
	Name           string `json:"name"`
	Rarity         string `json:"rarity"`
	Emoji          string `json:"emoji"`
	HasBeenWatered bool   `json:"hasBeenWatered,omitempty"`
	ID             int    `json:"id"`
	Quantity       *int   `json:"quantity,omitempty"`
}

type Building struct {
	Name     string `json:"name"`
	ID       int    `json:"id"`
	ImageURL string `json:"imageUrl"`
	IsOpen   *bool  `json:"isOpen,omitempty"`
}

// Open treats a missing flag as open.
func (b Building) Open() bool {
	return b.IsOpen == nil || *b.IsOpen
}

type Affinity struct {
	WholeHearts        int     `json:"wholeHearts"`
	ExtraHeartFraction float64 `json:"extraHeartFraction"`
	MaxHearts          int     `json:"maxHearts"`
}

type Villager struct {
	Name             string   `json:"name"`
	ImageURL         string   `json:"imageUrl"`
	Description      string   `json:"description"`
	ID               int      `json:"id"`
	Affinity         Affinity `json:"affinity"`
	HasBeenTalkedTo  bool     `json:"hasBeenTalkedTo,omitempty"`
	HasBeenGivenGift bool     `json:"hasBeenGivenGift,omitempty"`
}

// Message is a line in the message log. Server ids are positive; ids of
// locally synthesized messages are negative.
type Message struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	IsError bool   `json:"isError"`
}

// Dialogue is a single-turn villager speech bubble.
type Dialogue struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl"`
	FullText string    `json:"fullText"`
	Affinity *Affinity `json:"affinity,omitempty"`
}

type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

// Settings are the challenge options. Draft values apply on the next run.
type Settings struct {
	VillagersMove        bool    `json:"villagers_move"`
	BuildingHours        bool    `json:"building_hours"`
	AdvancedCrops        bool    `json:"advanced_crops"`
	DynamicShop          bool    `json:"dynamic_shop"`
	DraftVillagersMove   bool    `json:"draft_villagers_move"`
	DraftBuildingHours   bool    `json:"draft_building_hours"`
	DraftAdvancedCrops   bool    `json:"draft_advanced_crops"`
	DraftDynamicShop     bool    `json:"draft_dynamic_shop"`
	ScoreMultiplier      float64 `json:"score_multiplier"`
	DraftScoreMultiplier float64 `json:"draft_score_multiplier"`
}

// Snapshot is the complete view-model the console renders from.
type Snapshot struct {
	Hero         Hero                 `json:"hero"`
	Clock        Clock                `json:"clock"`
	Wallet       string               `json:"wallet"`
	Place        Place                `json:"place"`
	Inventory    []Item               `json:"inventory"`
	Buildings    []Building           `json:"buildings"`
	LocalItems   []Item               `json:"localItemTokens"`
	Villagers    []Villager           `json:"villagerStates"`
	Actions      []actions.Descriptor `json:"actions"`
	Messages     []Message            `json:"messages"`
	Dialogue     *Dialogue            `json:"dialogue"`
	Achievements []Achievement        `json:"achievements,omitempty"`
	PortraitURLs []string             `json:"portraitUrls,omitempty"`
	Settings     *Settings            `json:"settings,omitempty"`
	GameOver     bool                 `json:"gameOver,omitempty"`
}

// Partial is a sparse update. A nil pointer or nil slice means the field is
// absent; a present empty list replaces the previous list.
type Partial struct {
	Hero         *Hero                `json:"hero,omitempty"`
	Clock        *Clock               `json:"clock,omitempty"`
	Wallet       *string              `json:"wallet,omitempty"`
	Place        *Place               `json:"place,omitempty"`
	Inventory    []Item               `json:"inventory,omitzero"`
	Buildings    []Building           `json:"buildings,omitzero"`
	LocalItems   []Item               `json:"localItemTokens,omitzero"`
	Villagers    []Villager           `json:"villagerStates,omitzero"`
	Actions      []actions.Descriptor `json:"actions,omitzero"`
	Messages     []Message            `json:"messages,omitzero"`
	Dialogue     *Dialogue            `json:"dialogue,omitempty"`
	Achievements []Achievement        `json:"achievements,omitzero"`
	PortraitURLs []string             `json:"portraitUrls,omitzero"`
	Settings     *Settings            `json:"settings,omitempty"`
	GameOver     *bool                `json:"gameOver,omitempty"`
}

// Full converts a complete snapshot into a partial that supplies every field.
// Used to seed the store from the bootstrap page.
func Full(s Snapshot) Partial {
	return Partial{
		Hero:         &s.Hero,
		Clock:        &s.Clock,
		Wallet:       &s.Wallet,
		Place:        &s.Place,
		Inventory:    present(s.Inventory),
		Buildings:    present(s.Buildings),
		LocalItems:   present(s.LocalItems),
		Villagers:    present(s.Villagers),
		Actions:      present(s.Actions),
		Messages:     present(s.Messages),
		Dialogue:     s.Dialogue,
		Achievements: present(s.Achievements),
		PortraitURLs: present(s.PortraitURLs),
		Settings:     s.Settings,
		GameOver:     &s.GameOver,
	}
}

func present[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// IsEmpty reports whether the partial carries no fields at all.
func (p Partial) IsEmpty() bool {
	return p.Hero == nil && p.Clock == nil && p.Wallet == nil && p.Place == nil &&
		p.Inventory == nil && p.Buildings == nil && p.LocalItems == nil &&
		p.Villagers == nil && p.Actions == nil && p.Messages == nil &&
		p.Dialogue == nil && p.Achievements == nil && p.PortraitURLs == nil &&
		p.Settings == nil && p.GameOver == nil
}
