// Package fixture is a small, deterministic stand-in for the Mythgarden
// server. It speaks the same HTTP contract so the console can run locally
// and be tested end to end. It is not the real game rules.
package fixture

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

const (
	StartMinute = 7 * 60
	StartKoin   = 10
	StartPlace  = PlaceFarm
	LastDay     = 7
	WakeMinute  = 6 * 60

	maxMessages = 50
	maxNameLen  = 16
)

const (
	PlaceFarm = 1
	PlaceTown = 2
	PlaceShop = 3
	PlaceHome = 4
)

const (
	VillagerTrix = 5
	VillagerAda  = 6
)

type placeDef struct {
	Name         string
	HasInventory bool
	Arrows       []snapshot.Arrow
	Buildings    []int
	// Hours is [open, close) in minutes; zero means always open.
	Hours [2]int
}

var places = map[int]placeDef{
	PlaceFarm: {
		Name:         "Farm",
		HasInventory: true,
		Arrows:       []snapshot.Arrow{{Direction: "east", ID: PlaceTown}},
		Buildings:    []int{PlaceHome},
	},
	PlaceTown: {
		Name:      "Town",
		Arrows:    []snapshot.Arrow{{Direction: "west", ID: PlaceFarm}},
		Buildings: []int{PlaceShop},
	},
	PlaceShop: {
		Name:         "Shop",
		HasInventory: true,
		Arrows:       []snapshot.Arrow{{Direction: "out", ID: PlaceTown}},
		Hours:        [2]int{8 * 60, 18 * 60},
	},
	PlaceHome: {
		Name:   "Home",
		Arrows: []snapshot.Arrow{{Direction: "out", ID: PlaceFarm}},
	},
}

var villagerDefs = []snapshot.Villager{
	{Name: "Trix", ID: VillagerTrix, Description: "A restless wanderer with a laugh like wind chimes.", Affinity: snapshot.Affinity{MaxHearts: 10}},
	{Name: "Ada", ID: VillagerAda, Description: "Keeps the shop and every ledger in it.", Affinity: snapshot.Affinity{MaxHearts: 10}},
}

var villagerHome = map[int]int{
	VillagerTrix: PlaceTown,
	VillagerAda:  PlaceShop,
}

var greetings = map[int]string{
	VillagerTrix: "Oh! Hello, farmer. Have you seen how the clouds move today?",
	VillagerAda:  "Welcome in. Everything on the shelf is priced fair, I promise.",
}

var portraitNames = []string{"red-hair", "blue-cap", "green-scarf"}

// PortraitURL is where the fixture serves a farmer portrait from.
func PortraitURL(name string) string {
	return fmt.Sprintf("/static/mythgarden/portraits/farmer/%s.png", name)
}

func portraitURLs() []string {
	urls := make([]string, len(portraitNames))
	for i, name := range portraitNames {
		urls[i] = PortraitURL(name)
	}
	return urls
}

func validPortraitPath(path string) (string, bool) {
	for _, name := range portraitNames {
		if name+".png" == path {
			return name, true
		}
	}
	return "", false
}

// Item kinds carried in session state.
const (
	kindCrop  = "crop"
	kindSeed  = "seed"
	kindGift  = "gift"
	kindGoods = "goods"
)

// Item is an item as the fixture tracks it.
type Item struct {
	snapshot.Item
	Kind  string `json:"kind"`
	Price int    `json:"price"`
}

func startingFarm() []Item {
	return []Item{
		{Item: snapshot.Item{Name: "Parsnip", Rarity: "common", Emoji: "🥕", ID: 3}, Kind: kindCrop, Price: 4},
	}
}

func startingInventory() []Item {
	return []Item{
		{Item: snapshot.Item{Name: "Parsnip Seeds", Rarity: "common", Emoji: "🌱", ID: 11}, Kind: kindSeed, Price: 2},
		{Item: snapshot.Item{Name: "Bouquet", Rarity: "rare", Emoji: "💐", ID: 12}, Kind: kindGift, Price: 5},
	}
}

func startingShop() []Item {
	return []Item{
		{Item: snapshot.Item{Name: "Melon Seeds", Rarity: "uncommon", Emoji: "🌱", ID: 20}, Kind: kindSeed, Price: 6},
		{Item: snapshot.Item{Name: "Chocolate", Rarity: "common", Emoji: "🍫", ID: 21}, Kind: kindGift, Price: 3},
	}
}

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func dayDisplay(day int) string {
	return dayNames[(day-1+len(dayNames))%len(dayNames)]
}

func timeDisplay(minute int) string {
	h, m := minute/60, minute%60
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

func wallet(koin int) string {
	return fmt.Sprintf("⚜️%d", koin)
}

func findItem(items []Item, id int) (int, bool) {
	i := slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
	return i, i >= 0
}
