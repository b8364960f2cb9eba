package actions

// Kind is the action verb that prefixes every digest.
type Kind string

const (
	KindTravel   Kind = "TRAVEL"
	KindTalk     Kind = "TALK"
	KindGive     Kind = "GIVE"
	KindWater    Kind = "WATER"
	KindPlant    Kind = "PLANT"
	KindHarvest  Kind = "HARVEST"
	KindBuy      Kind = "BUY"
	KindSell     Kind = "SELL"
	KindStow     Kind = "STOW"
	KindRetrieve Kind = "RETRIEVE"
	KindGather   Kind = "GATHER"
	KindSleep    Kind = "SLEEP"
)

// ItemKinds are tried in order when an item is clicked. An item has at most
// one of these available at a time, gifts excluded.
var ItemKinds = []Kind{KindWater, KindPlant, KindHarvest, KindBuy, KindSell, KindStow, KindRetrieve}

// CostType distinguishes time costs (minutes) from money costs.
type CostType string

const (
	CostTime  CostType = "time"
	CostMoney CostType = "money"
)

// EntityType is the kind of entity an action targets.
type EntityType string

const (
	EntityNone     EntityType = ""
	EntityItem     EntityType = "item"
	EntityVillager EntityType = "villager"
	EntityPlace    EntityType = "place"
	EntityGift     EntityType = "gift"
)

// WaitClass buckets time costs for display coloring.
type WaitClass string

const (
	WaitTrivial     WaitClass = "trivial"
	WaitTrivialPlus WaitClass = "trivialPlus"
	WaitSmallMinus  WaitClass = "smallMinus"
	WaitSmall       WaitClass = "small"
	WaitSmallPlus   WaitClass = "smallPlus"
	WaitMediumMinus WaitClass = "mediumMinus"
	WaitMedium      WaitClass = "medium"
	WaitMediumPlus  WaitClass = "mediumPlus"
	WaitLongMinus   WaitClass = "longMinus"
	WaitLong        WaitClass = "long"
)

// Descriptor is one currently legal player action as sent by the server.
// The full list is replaced on every snapshot merge.
type Descriptor struct {
	Description    string     `json:"description"`
	Emoji          string     `json:"emoji"`
	CostAmount     *int       `json:"costAmount,omitempty"`
	CostType       CostType   `json:"costType,omitempty"`
	WaitClass      WaitClass  `json:"waitClass,omitempty"`
	EntityType     EntityType `json:"entityType,omitempty"`
	EntityID       *int       `json:"entityId,omitempty"`
	GiftReceiverID *int       `json:"giftReceiverId,omitempty"`
	Digest         string     `json:"uniqueDigest"`
	TargetCount    int        `json:"targetCount,omitempty"`
}

// IsGift reports whether the descriptor is a gift action with a receiver.
func (d Descriptor) IsGift() bool {
	_, ok := giftReceiver(d)
	return ok
}
