package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mythgarden-console/internal/client"
	"github.com/jwebster45206/mythgarden-console/internal/fixture"
	"github.com/jwebster45206/mythgarden-console/pkg/actions"
	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
	"github.com/jwebster45206/mythgarden-console/pkg/toast"
)

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type request struct {
	Path string
	Body string
}

// scriptedServer answers every path with a canned body and records what it
// was sent.
type scriptedServer struct {
	mu        sync.Mutex
	requests  []request
	responses map[string]string
}

func newScriptedServer(t *testing.T, responses map[string]string) (*scriptedServer, *httptest.Server) {
	t.Helper()
	s := &scriptedServer{responses: responses}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, request{Path: r.URL.Path, Body: string(body)})
		resp, ok := s.responses[r.URL.Path]
		s.mu.Unlock()
		if !ok {
			resp = "{}"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(ts.Close)
	return s, ts
}

func (s *scriptedServer) sent() []request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]request(nil), s.requests...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestUI(t *testing.T, baseURL string, initial snapshot.Snapshot, clock *fakeClock) ConsoleUI {
	t.Helper()
	c, err := client.New(baseURL, 5*time.Second, testLogger())
	require.NoError(t, err)
	return newModel(c, testLogger(), snapshot.Full(initial), clock.now, func(string) error { return nil })
}

func step(t *testing.T, m ConsoleUI, msg tea.Msg) (ConsoleUI, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	ui, ok := next.(ConsoleUI)
	require.True(t, ok)
	return ui, cmd
}

// drain runs cmd and feeds its messages back into the model until no command
// is left. Only request commands may be drained; timers would block.
func drain(t *testing.T, m ConsoleUI, cmd tea.Cmd) ConsoleUI {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 10, "command chain did not settle")
		msg := cmd()
		switch msg.(type) {
		case dispatchMsg, restartMsg, bootstrapMsg, settingsMsg:
		default:
			t.Fatalf("unexpected message %T", msg)
		}
		m, cmd = step(t, m, msg)
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func farmSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Hero:   snapshot.Hero{Name: "Hero"},
		Clock:  snapshot.Clock{Display: "Mon 8:00 AM", Time: 480, DayNumber: 1},
		Wallet: "⚜️10",
		Place:  snapshot.Place{Name: "Farm", ID: 1, HasInventory: true},
		LocalItems: []snapshot.Item{
			{ID: 3, Name: "Parsnip", Emoji: "🥕"},
		},
		Actions: []actions.Descriptor{
			{Digest: "WATER-3", Emoji: "💧", Description: "Water Parsnip", EntityType: actions.EntityItem, EntityID: intPtr(3), CostAmount: intPtr(5), CostType: actions.CostTime, WaitClass: actions.WaitTrivial},
		},
		Dialogue: &snapshot.Dialogue{ID: 1, Name: "Trix", FullText: "Lovely morning."},
	}
}

func TestWaterRoundTrip(t *testing.T) {
	srv, ts := newScriptedServer(t, map[string]string{
		"/action": `{"wallet":"⚜️8","messages":[{"id":1,"text":"💧 You watered the Parsnip.","isError":false}]}`,
	})
	clock := &fakeClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	m := newTestUI(t, ts.URL, farmSnapshot(), clock)

	m.focus = panelItems
	m, cmd := step(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.pending)
	m = drain(t, m, cmd)

	reqs := srv.sent()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/action", reqs[0].Path)
	assert.JSONEq(t, `{"uniqueDigest":"WATER-3"}`, reqs[0].Body)

	snap := m.store.Current()
	assert.Equal(t, "⚜️8", snap.Wallet)
	assert.Equal(t, 480, snap.Clock.Time, "absent clock keeps its value")
	assert.Nil(t, snap.Dialogue, "dialogue does not survive a merge")
	assert.Equal(t, 0, m.pending)

	active := m.toasts.Active()
	require.Len(t, active, 1)
	assert.Equal(t, toast.Visible, active[0].State)

	clock.advance(3500 * time.Millisecond)
	m, _ = step(t, m, tickMsg(clock.now()))
	active = m.toasts.Active()
	require.Len(t, active, 1)
	assert.Equal(t, toast.Fading, active[0].State)

	clock.advance(3 * time.Second)
	m, _ = step(t, m, tickMsg(clock.now()))
	assert.Empty(t, m.toasts.Active())
	assert.True(t, m.toasts.Seen(1))
}

func TestClosedBuildingWarnsWithoutRequest(t *testing.T) {
	srv, ts := newScriptedServer(t, nil)
	clock := &fakeClock{t: time.Now()}
	snap := snapshot.Snapshot{
		Place:     snapshot.Place{Name: "Town", ID: 2},
		Buildings: []snapshot.Building{{ID: 3, Name: "Shop", IsOpen: boolPtr(false)}},
	}
	m := newTestUI(t, ts.URL, snap, clock)
	m.focus = panelPlace

	m, cmd := step(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, srv.sent())

	msgs := m.store.Current().Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, "🔒 Shop is closed right now.", msgs[0].Text)
	assert.True(t, msgs[0].IsError)
	assert.Negative(t, msgs[0].ID)
	assert.Len(t, m.toasts.Active(), 1)

	m.store.Apply(snapshot.Partial{
		Buildings: []snapshot.Building{{ID: 3, Name: "Shop", IsOpen: boolPtr(true)}},
		Actions:   []actions.Descriptor{{Digest: "TRAVEL-3", EntityType: actions.EntityPlace, EntityID: intPtr(3)}},
	})
	m, cmd = step(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	drain(t, m, cmd)

	reqs := srv.sent()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"uniqueDigest":"TRAVEL-3"}`, reqs[0].Body)
}

func TestGiftDrop(t *testing.T) {
	srv, ts := newScriptedServer(t, nil)
	clock := &fakeClock{t: time.Now()}
	snap := snapshot.Snapshot{
		Place:     snapshot.Place{Name: "Town", ID: 2},
		Inventory: []snapshot.Item{{ID: 12, Name: "Bouquet", Emoji: "💐"}},
		Villagers: []snapshot.Villager{
			{ID: 5, Name: "Trix"},
			{ID: 6, Name: "Ada"},
		},
		Actions: []actions.Descriptor{
			{Digest: "GIVE-12-5", Emoji: "🎁", EntityType: actions.EntityGift, EntityID: intPtr(12), GiftReceiverID: intPtr(5)},
		},
	}
	m := newTestUI(t, ts.URL, snap, clock)
	m.focus = panelInventory

	m, _ = step(t, m, runes("g"))
	require.NotNil(t, m.held)
	assert.Equal(t, 12, *m.held)
	assert.Equal(t, panelVillagers, m.focus)

	snapNow := m.store.Current()
	rows := entitiesFor(panelVillagers, snapNow, actions.Build(snapNow.Actions), m.held)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Highlight)
	assert.True(t, rows[1].Dim)

	m, _ = step(t, m, key(tea.KeyDown))
	m, cmd := step(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.NotNil(t, m.held, "a refused drop keeps the gift in hand")
	msgs := m.store.Current().Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, "🎁 Ada can't accept gifts right now.", msgs[0].Text)

	m, _ = step(t, m, key(tea.KeyUp))
	m, cmd = step(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Nil(t, m.held)
	drain(t, m, cmd)

	reqs := srv.sent()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"uniqueDigest":"GIVE-12-5"}`, reqs[0].Body)
}

func TestApplicationErrorKeepsSnapshot(t *testing.T) {
	_, ts := newScriptedServer(t, map[string]string{
		"/action": `{"error":"⚠️ Oops, that action isn't available","messages":[{"id":7,"text":"⚠️ Oops, that action isn't available","isError":true}]}`,
	})
	clock := &fakeClock{t: time.Now()}
	m := newTestUI(t, ts.URL, farmSnapshot(), clock)
	m.focus = panelItems

	m, cmd := step(t, m, key(tea.KeyEnter))
	m = drain(t, m, cmd)

	snap := m.store.Current()
	assert.Equal(t, "⚜️10", snap.Wallet)
	require.Len(t, snap.Messages, 1)
	assert.True(t, snap.Messages[0].IsError)
	assert.True(t, m.toasts.Seen(7))
}

func TestTransportFailureShowsGenericMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()
	clock := &fakeClock{t: time.Now()}
	m := newTestUI(t, ts.URL, farmSnapshot(), clock)
	m.focus = panelItems

	m, cmd := step(t, m, key(tea.KeyEnter))
	m = drain(t, m, cmd)

	snap := m.store.Current()
	assert.Equal(t, "⚜️10", snap.Wallet)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "⚠️ Something went wrong. Please try again.", snap.Messages[0].Text)
	assert.Negative(t, snap.Messages[0].ID)
}

func TestParseCommand(t *testing.T) {
	snap := snapshot.Snapshot{
		Place: snapshot.Place{Name: "Farm", ID: 1, HasInventory: true, Arrows: []snapshot.Arrow{{Direction: "east", ID: 2}}},
		Buildings: []snapshot.Building{
			{ID: 4, Name: "Home"},
			{ID: 3, Name: "Shop", IsOpen: boolPtr(false)},
		},
		LocalItems: []snapshot.Item{{ID: 3, Name: "Parsnip"}},
		Inventory:  []snapshot.Item{{ID: 11, Name: "Parsnip Seeds"}, {ID: 12, Name: "Bouquet"}},
		Villagers: []snapshot.Villager{
			{ID: 5, Name: "Trix"},
			{ID: 6, Name: "Ada", HasBeenTalkedTo: true},
		},
		Actions: []actions.Descriptor{
			{Digest: "TALK-5"},
			{Digest: "TRAVEL-2"},
			{Digest: "TRAVEL-4"},
			{Digest: "WATER-3"},
			{Digest: "PLANT-11"},
			{Digest: "GIVE-12-5", GiftReceiverID: intPtr(5)},
		},
	}
	ix := actions.Build(snap.Actions)

	tests := []struct {
		input string
		want  command
	}{
		{input: "", want: command{}},
		{input: "talk trx", want: command{kind: commandDispatch, digest: "TALK-5"}},
		{input: "Talk Ada", want: command{kind: commandWarn, text: "💬 You already talked to Ada today."}},
		{input: "go east", want: command{kind: commandDispatch, digest: "TRAVEL-2"}},
		{input: "enter home", want: command{kind: commandDispatch, digest: "TRAVEL-4"}},
		{input: "go shop", want: command{kind: commandWarn, text: "🔒 Shop is closed right now."}},
		{input: "water parsnip", want: command{kind: commandDispatch, digest: "WATER-3"}},
		{input: "plant seeds", want: command{kind: commandDispatch, digest: "PLANT-11"}},
		{input: "sell bouquet", want: command{kind: commandWarn, text: "🤷 You can't sell the Bouquet right now."}},
		{input: "give bouquet to trix", want: command{kind: commandDispatch, digest: "GIVE-12-5"}},
		{input: "give bouquet ada", want: command{kind: commandWarn, text: "🎁 Ada can't accept gifts right now."}},
		{input: "give bouquet", want: command{kind: commandWarn, text: "🎁 Give what to whom? Try: give bouquet to trix"}},
		{input: "talk zzzzzz", want: command{kind: commandWarn, text: `❓ There's nothing here called "zzzzzz".`}},
		{input: "sleep", want: command{kind: commandWarn, text: "💤 You can't sleep here."}},
		{input: "dance", want: command{kind: commandWarn, text: `❓ Unknown command "dance". Try /help.`}},
		{input: "/history", want: command{kind: commandHistory}},
		{input: "/restart", want: command{kind: commandRestart}},
		{input: "/help", want: command{kind: commandInfo, text: helpText}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCommand(tt.input, snap, ix))
		})
	}
}

func TestClosest(t *testing.T) {
	names := []string{"Trix", "Ada", "Parsnip Seeds"}
	assert.Equal(t, 0, closest("trx", names))
	assert.Equal(t, 1, closest("ADA", names))
	assert.Equal(t, 2, closest("seeds", names))
	assert.Equal(t, -1, closest("qqqqqq", names))
	assert.Equal(t, -1, closest("  ", names))
}

func TestSettings(t *testing.T) {
	srv, ts := newScriptedServer(t, map[string]string{
		"/settings":  `{"villagers_move":false,"draft_villagers_move":true,"score_multiplier":1,"draft_score_multiplier":1.5}`,
		"/user_data": `{"hero":{"name":"Herox","imageUrl":""},"messages":[{"id":3,"text":"Saved new farmer name!","isError":false}]}`,
	})
	clock := &fakeClock{t: time.Now()}
	m := newTestUI(t, ts.URL, farmSnapshot(), clock)

	m, cmd := step(t, m, runes("s"))
	require.True(t, m.showSettings)
	m = drain(t, m, cmd)
	require.True(t, m.settings.loaded)
	assert.True(t, pendingChanges(m.settings.settings))

	m, _ = step(t, m, runes("x"))
	require.Equal(t, 1, m.settings.nameSeq)
	require.True(t, m.settings.dirty)
	typed := m.settings.name.Value()
	assert.Contains(t, typed, "x")

	m, cmd = step(t, m, saveNameMsg{seq: 0})
	assert.Nil(t, cmd, "stale timers do nothing")

	m, cmd = step(t, m, saveNameMsg{seq: 1})
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)
	assert.False(t, m.settings.dirty)
	assert.Equal(t, "Herox", m.store.Current().Hero.Name)

	m, _ = step(t, m, key(tea.KeyDown))
	m, _ = step(t, m, key(tea.KeyDown))
	require.Equal(t, fieldVillagersMove, m.settings.field)
	m, cmd = step(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	reqs := srv.sent()
	require.Len(t, reqs, 3)
	assert.Equal(t, "/user_data", reqs[1].Path)
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(reqs[1].Body), &body))
	assert.Equal(t, typed, body["userData"]["name"])
	assert.Equal(t, "/settings", reqs[2].Path)
	assert.JSONEq(t, `{"draft_villagers_move":false}`, reqs[2].Body)

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Next week")
}

func TestQuitModal(t *testing.T) {
	_, ts := newScriptedServer(t, nil)
	m := newTestUI(t, ts.URL, farmSnapshot(), &fakeClock{t: time.Now()})

	m, _ = step(t, m, runes("q"))
	require.True(t, m.showQuit)
	m, _ = step(t, m, runes("n"))
	assert.False(t, m.showQuit)

	m, _ = step(t, m, runes("q"))
	_, cmd := step(t, m, runes("y"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	_, ts := newScriptedServer(t, nil)
	m := newTestUI(t, ts.URL, farmSnapshot(), &fakeClock{t: time.Now()})
	assert.Contains(t, m.View(), "Loading")

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	out := m.View()
	assert.Contains(t, out, "Farm")
	assert.Contains(t, out, "Parsnip")
	assert.Contains(t, out, "Lovely morning.")
}

func TestHistoryCopy(t *testing.T) {
	_, ts := newScriptedServer(t, nil)
	snap := farmSnapshot()
	snap.Messages = []snapshot.Message{{ID: 1, Text: "one"}, {ID: 2, Text: "two"}}
	var copied string
	c, err := client.New(ts.URL, time.Second, testLogger())
	require.NoError(t, err)
	m := newModel(c, testLogger(), snapshot.Full(snap), time.Now, func(s string) error {
		copied = s
		return nil
	})

	m, _ = step(t, m, runes("h"))
	require.True(t, m.showHistory)
	m, _ = step(t, m, runes("c"))
	assert.False(t, m.showHistory)
	assert.Equal(t, "one\ntwo", copied)

	msgs := m.store.Current().Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "📋 Copied 2 messages.", msgs[2].Text)
}

func TestFixtureWeek(t *testing.T) {
	mr := miniredis.RunT(t)
	log := testLogger()
	store, err := fixture.NewStore(context.Background(), "redis://"+mr.Addr(), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ts := httptest.NewServer(fixture.NewServer(store, log).Handler())
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, 5*time.Second, log)
	require.NoError(t, err)
	initial, err := c.Bootstrap(context.Background(), "")
	require.NoError(t, err)
	m := newModel(c, log, initial, time.Now, func(string) error { return nil })

	snap := m.store.Current()
	require.Equal(t, "Farm", snap.Place.Name)
	require.Equal(t, 1, snap.Clock.DayNumber)

	next, cmd := m.run("water parsnip")
	m = drain(t, next.(ConsoleUI), cmd)
	snap = m.store.Current()
	require.NotEmpty(t, snap.LocalItems)
	assert.True(t, snap.LocalItems[0].HasBeenWatered)
	assert.Equal(t, fixture.StartMinute+5, snap.Clock.Time)

	next, cmd = m.run("go home")
	m = drain(t, next.(ConsoleUI), cmd)
	require.Equal(t, "Home", m.store.Current().Place.Name)

	for day := 1; day <= fixture.LastDay; day++ {
		next, cmd = m.run("sleep")
		require.NotNil(t, cmd, "day %d", day)
		m = drain(t, next.(ConsoleUI), cmd)
	}

	snap = m.store.Current()
	require.True(t, snap.GameOver)
	assert.False(t, m.reloading)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "The week is over")

	m, cmd = step(t, m, runes("r"))
	m = drain(t, m, cmd)

	snap = m.store.Current()
	assert.False(t, snap.GameOver)
	assert.Equal(t, 1, snap.Clock.DayNumber)
	assert.Equal(t, "Farm", snap.Place.Name)
	assert.NotEmpty(t, snap.Actions)
}
