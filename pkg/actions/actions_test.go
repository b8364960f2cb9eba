package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestParseDigest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Digest
		wantErr bool
	}{
		{name: "single target", input: "TALK-5", want: Digest{Kind: KindTalk, IDs: []int{5}}},
		{name: "gift", input: "GIVE-12-3", want: Digest{Kind: KindGive, IDs: []int{12, 3}}},
		{name: "untargeted", input: "SLEEP-", want: Digest{Kind: KindSleep}},
		{name: "missing separator", input: "SLEEP", wantErr: true},
		{name: "empty kind", input: "-5", wantErr: true},
		{name: "non numeric id", input: "TALK-trix", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDigest(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDigest)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %+v", got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestDigestString(t *testing.T) {
	assert.Equal(t, "GIVE-7-2", Gift(7, 2).String())
	assert.Equal(t, "SLEEP-", Untargeted(KindSleep).String())
	assert.Equal(t, "TRAVEL-4", Targeted(KindTravel, 4).String())
}

func TestBuild_ResolvesEntityKeys(t *testing.T) {
	list := []Descriptor{
		{Digest: "TALK-5", Emoji: "💬", EntityType: EntityVillager, EntityID: intPtr(5), CostAmount: intPtr(10), CostType: CostTime, WaitClass: WaitSmall},
		{Digest: "TRAVEL-2", Emoji: "🚶", EntityType: EntityPlace, EntityID: intPtr(2), CostAmount: intPtr(15), CostType: CostTime},
	}

	ix := Build(list)

	talk, ok := ix.Pill("villager-5")
	require.True(t, ok)
	assert.Equal(t, "💬", talk.Emoji)
	assert.Equal(t, 10, *talk.CostAmount)
	assert.Equal(t, WaitSmall, talk.WaitClass)

	travel, ok := ix.Pill("place-2")
	require.True(t, ok)
	assert.Equal(t, "🚶", travel.Emoji)

	_, ok = ix.Pill("villager-6")
	assert.False(t, ok)
	assert.Empty(t, ix.Duplicates)
}

func TestBuild_InfersKeysFromDigest(t *testing.T) {
	list := []Descriptor{
		{Digest: "TALK-5", Emoji: "💬"},
		{Digest: "TRAVEL-2", Emoji: "🚶"},
		{Digest: "WATER-3", Emoji: "💧"},
		{Digest: "SLEEP-", Emoji: "💤"},
		{Digest: "GIVE-9-5", Emoji: "🎁"},
	}

	ix := Build(list)

	for key, emoji := range map[string]string{
		"villager-5": "💬",
		"place-2":    "🚶",
		"item-3":     "💧",
		NoEntityKey:  "💤",
		"gift-5":     "🎁",
	} {
		pill, ok := ix.Pill(key)
		if assert.True(t, ok, key) {
			assert.Equal(t, emoji, pill.Emoji, key)
		}
	}
	assert.True(t, ix.IsGiftRecipient(5))
}

func TestBuild_GiftRecipients(t *testing.T) {
	list := []Descriptor{
		{Digest: "GIVE-9-1", EntityType: EntityGift, EntityID: intPtr(9), GiftReceiverID: intPtr(1)},
		{Digest: "GIVE-10-1", EntityType: EntityGift, EntityID: intPtr(10), GiftReceiverID: intPtr(1)},
		{Digest: "GIVE-9-4", EntityType: EntityGift, EntityID: intPtr(9), GiftReceiverID: intPtr(4)},
		{Digest: "TALK-2", EntityType: EntityVillager, EntityID: intPtr(2)},
	}

	ix := Build(list)

	assert.Equal(t, []int{1, 4}, ix.GiftRecipients())
	assert.True(t, ix.IsGiftRecipient(4))
	assert.False(t, ix.IsGiftRecipient(2))
	assert.Empty(t, ix.Duplicates, "gift keys may repeat without being duplicates")
	assert.Equal(t, 3, ix.Len())
}

func TestBuild_RecordsDuplicates(t *testing.T) {
	list := []Descriptor{
		{Digest: "WATER-3", Emoji: "💧", EntityType: EntityItem, EntityID: intPtr(3)},
		{Digest: "HARVEST-3", Emoji: "🌾", EntityType: EntityItem, EntityID: intPtr(3)},
	}

	ix := Build(list)

	assert.Equal(t, []string{"item-3"}, ix.Duplicates)
	pill, _ := ix.Pill("item-3")
	assert.Equal(t, "🌾", pill.Emoji)
}

func TestFindMatching(t *testing.T) {
	list := []Descriptor{
		{Digest: "TALK-5"},
		{Digest: "TALK-51"},
		{Digest: "SLEEP-"},
		{Digest: "garbage"},
	}

	d, ok := FindMatching(list, KindTalk, 5)
	require.True(t, ok)
	assert.Equal(t, "TALK-5", d.Digest)

	_, ok = FindMatching(list, KindTalk, 1)
	assert.False(t, ok, "prefix of another digest must not match")

	d, ok = FindUntargeted(list, KindSleep)
	require.True(t, ok)
	assert.Equal(t, "SLEEP-", d.Digest)

	_, ok = FindUntargeted(list, KindTalk)
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	list := []Descriptor{
		{Digest: "TALK-5"},
		{Digest: "TRAVEL-2"},
		{Digest: "TRAVEL-8"},
		{Digest: "HARVEST-3"},
		{Digest: "SLEEP-"},
		{Digest: "GATHER-6"},
		{Digest: "GIVE-9-5", GiftReceiverID: intPtr(5)},
	}
	ix := Build(list)

	tests := []struct {
		name   string
		target Target
		want   Resolution
	}{
		{
			name:   "villager talk",
			target: Target{Kind: TargetVillager, ID: intPtr(5), Name: "Trix"},
			want:   Resolution{Digest: "TALK-5"},
		},
		{
			name:   "villager already talked to",
			target: Target{Kind: TargetVillager, ID: intPtr(7), Name: "Ada", TalkedTo: true},
			want:   Resolution{Warning: "💬 You already talked to Ada today."},
		},
		{
			name:   "villager without action",
			target: Target{Kind: TargetVillager, ID: intPtr(7), Name: "Ada"},
			want:   Resolution{},
		},
		{
			name:   "open building",
			target: Target{Kind: TargetBuilding, ID: intPtr(8), Name: "Shop"},
			want:   Resolution{Digest: "TRAVEL-8"},
		},
		{
			name:   "closed building",
			target: Target{Kind: TargetBuilding, ID: intPtr(8), Name: "Shop", Closed: true},
			want:   Resolution{Warning: "🔒 Shop is closed right now."},
		},
		{
			name:   "arrow",
			target: Target{Kind: TargetArrow, ID: intPtr(2)},
			want:   Resolution{Digest: "TRAVEL-2"},
		},
		{
			name:   "item tries item kinds in order",
			target: Target{Kind: TargetItem, ID: intPtr(3)},
			want:   Resolution{Digest: "HARVEST-3"},
		},
		{
			name:   "item without action",
			target: Target{Kind: TargetItem, ID: intPtr(4)},
			want:   Resolution{},
		},
		{
			name:   "untargeted activity",
			target: Target{Kind: TargetActivity, ActionKind: KindSleep},
			want:   Resolution{Digest: "SLEEP-"},
		},
		{
			name:   "targeted activity",
			target: Target{Kind: TargetActivity, ActionKind: KindGather, ID: intPtr(6)},
			want:   Resolution{Digest: "GATHER-6"},
		},
		{
			name:   "gift drop on recipient",
			target: Target{Kind: TargetGiftDrop, ID: intPtr(5), GiftID: 9, Name: "Trix"},
			want:   Resolution{Digest: "GIVE-9-5"},
		},
		{
			name:   "gift drop on non recipient",
			target: Target{Kind: TargetGiftDrop, ID: intPtr(7), GiftID: 9, Name: "Ada"},
			want:   Resolution{Warning: "🎁 Ada can't accept gifts right now."},
		},
		{
			name:   "gift drop of other gift on recipient",
			target: Target{Kind: TargetGiftDrop, ID: intPtr(5), GiftID: 10, Name: "Trix"},
			want:   Resolution{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(list, ix, tt.target)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Digest != "", got.Dispatch())
		})
	}
}
