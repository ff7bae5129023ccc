package session

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"fishtank/ai"
	"fishtank/config"
	"fishtank/metrics"
	"fishtank/table"
	"fishtank/traits"
)

func TestMain(m *testing.M) {
	config.MustInit("")
	os.Exit(m.Run())
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEco is an in-memory balance book.
type fakeEco map[table.PlayerID]int64

func (e fakeEco) Balance(id table.PlayerID) (int64, bool) {
	b, ok := e[id]
	return b, ok
}

func (e fakeEco) Credit(id table.PlayerID, delta int64) { e[id] += delta }

func (e fakeEco) total() int64 {
	var sum int64
	for _, b := range e {
		sum += b
	}
	return sum
}

func persona(t *testing.T, name string, seed int64) ai.Policy {
	t.Helper()
	p, err := ai.NewPersona(name, seed)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func aiPair(t *testing.T, eco fakeEco) []PlayerSpec {
	t.Helper()
	eco["a"] = 200
	eco["b"] = 200
	return []PlayerSpec{
		{ID: "a", Species: traits.Fish, Policy: persona(t, "loose_passive", 1)},
		{ID: "b", Species: traits.Plant, Policy: persona(t, "loose_passive", 2)},
	}
}

func useConfig(t *testing.T, yaml string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	config.MustInit(path)
	t.Cleanup(func() { config.MustInit("") })
}

func TestStartSessionValidation(t *testing.T) {
	eco := fakeEco{"rich": 500, "poor": 5}
	m := NewManager(eco, nil, 1, quietLog())
	fish := func(id table.PlayerID) PlayerSpec {
		return PlayerSpec{ID: id, Species: traits.Fish, Policy: persona(t, "always_fold", 1)}
	}

	if _, err := m.StartSession([]PlayerSpec{fish("rich")}, 50); !errors.Is(err, table.ErrSeatCount) {
		t.Errorf("one player: err = %v, want ErrSeatCount", err)
	}
	if _, err := m.StartSession([]PlayerSpec{fish("rich"), fish("poor")}, 50); !errors.Is(err, ErrInsufficientStake) {
		t.Errorf("poor player: err = %v, want ErrInsufficientStake", err)
	}
	if _, err := m.StartSession([]PlayerSpec{fish("rich"), fish("ghost")}, 50); !errors.Is(err, ErrInsufficientStake) {
		t.Errorf("unknown balance: err = %v, want ErrInsufficientStake", err)
	}
	if m.Active() != 0 {
		t.Errorf("failed starts left %d sessions", m.Active())
	}
}

func TestTickConservesEnergy(t *testing.T) {
	eco := fakeEco{}
	m := NewManager(eco, nil, 7, quietLog())
	if _, err := m.StartSession(aiPair(t, eco), 50); err != nil {
		t.Fatal(err)
	}
	before := eco.total()

	var cuts int64
	hands := 0
	for tick := 0; tick < 400; tick++ {
		m.Tick()
		for _, ev := range m.Events() {
			if ev.Type != EventOutcome {
				t.Fatalf("unexpected %s event", ev.Type)
			}
			hands++
			cuts += ev.Outcome.HouseCut
		}
	}
	if hands == 0 {
		t.Fatal("no hands settled in 400 ticks")
	}
	st := m.Stats()
	if st.HandsPlayed != hands {
		t.Errorf("stats hands = %d, events saw %d", st.HandsPlayed, hands)
	}
	if got := eco.total(); got != before-cuts {
		t.Errorf("balances total %d, want %d (initial %d minus %d cut)", got, before-cuts, before, cuts)
	}
	if st.EnergyTransacted == 0 && cuts > 0 {
		t.Error("energy transacted not tracked")
	}
	for _, sp := range []traits.Species{traits.Fish, traits.Plant} {
		if st.HandsBySpecies[sp] != hands {
			t.Errorf("%s played %d hands, want %d", traits.SpeciesName(sp), st.HandsBySpecies[sp], hands)
		}
		if r := st.WinRate(sp); r < 0 || r > 1 {
			t.Errorf("%s win rate %.2f out of range", traits.SpeciesName(sp), r)
		}
	}
	if st.WinsBySpecies[traits.Fish]+st.WinsBySpecies[traits.Plant] < hands {
		t.Error("every settled hand should have a winning species")
	}
}

func TestMetricsTrackSettlement(t *testing.T) {
	eco := fakeEco{}
	met := metrics.New()
	m := NewManager(eco, met, 11, quietLog())
	if _, err := m.StartSession(aiPair(t, eco), 50); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(met.ActiveSessions); got != 1 {
		t.Fatalf("active sessions gauge = %v, want 1", got)
	}

	hands := 0
	for tick := 0; tick < 400; tick++ {
		m.Tick()
		for _, ev := range m.Events() {
			if ev.Type == EventOutcome {
				hands++
			}
		}
	}
	if hands == 0 {
		t.Fatal("no hands settled in 400 ticks")
	}

	if got := testutil.ToFloat64(met.HandsTotal); got != float64(hands) {
		t.Errorf("hands counter = %v, events saw %d", got, hands)
	}
	wins := testutil.ToFloat64(met.WinsTotal.WithLabelValues(traits.SpeciesName(traits.Fish))) +
		testutil.ToFloat64(met.WinsTotal.WithLabelValues(traits.SpeciesName(traits.Plant)))
	if wins < float64(hands) {
		t.Errorf("win counters total %v, want at least %d", wins, hands)
	}
}

func TestSubmitActionDrivesHumanSeat(t *testing.T) {
	eco := fakeEco{"human": 200, "bot": 200}
	m := NewManager(eco, nil, 3, quietLog())
	id, err := m.StartSession([]PlayerSpec{
		{ID: "human", Species: traits.Human},
		{ID: "bot", Species: traits.Fish, Policy: persona(t, "loose_passive", 4)},
	}, 50)
	if err != nil {
		t.Fatal(err)
	}

	s, _ := m.Session(id)
	for i := 0; i < 20 && s.Table().TurnID() != "human"; i++ {
		m.Tick()
	}
	if s.Table().TurnID() != "human" {
		t.Fatal("never reached the human's turn")
	}

	if err := m.SubmitAction(id, "bot", table.Action{Kind: table.Fold}); !errors.Is(err, table.ErrNotPlayersTurn) {
		t.Errorf("out-of-turn submit: err = %v, want ErrNotPlayersTurn", err)
	}
	if err := m.SubmitAction(id, "human", table.Action{Kind: table.Fold}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	m.Tick()

	ran := false
	for _, ev := range m.Events() {
		if ev.Type == EventOutcome {
			ran = true
		}
	}
	if !ran && !s.Table().Terminal() && s.Table().TurnID() == "human" {
		t.Error("submitted fold was not consumed")
	}
}

func TestHumanTimeoutFolds(t *testing.T) {
	useConfig(t, "session:\n  human_timeout_ticks: 2\n")
	eco := fakeEco{"human": 200, "bot": 200}
	m := NewManager(eco, nil, 5, quietLog())
	if _, err := m.StartSession([]PlayerSpec{
		{ID: "human", Species: traits.Human},
		{ID: "bot", Species: traits.Fish, Policy: persona(t, "loose_passive", 6)},
	}, 50); err != nil {
		t.Fatal(err)
	}

	hands := 0
	for tick := 0; tick < 60; tick++ {
		m.Tick()
		for _, ev := range m.Events() {
			if ev.Type == EventOutcome {
				hands++
			}
		}
	}
	if hands == 0 {
		t.Error("silent human never timed out into a settled hand")
	}
}

func TestSuggestionIsLegal(t *testing.T) {
	eco := fakeEco{"human": 200, "bot": 200}
	m := NewManager(eco, nil, 9, quietLog())
	id, err := m.StartSession([]PlayerSpec{
		{ID: "human", Species: traits.Human},
		{ID: "bot", Species: traits.Fish, Policy: persona(t, "always_fold", 2)},
	}, 50)
	if err != nil {
		t.Fatal(err)
	}

	act, reason, err := m.Suggestion(id, "human")
	if err != nil {
		t.Fatalf("Suggestion: %v", err)
	}
	if reason == "" {
		t.Error("suggestion carries no reason")
	}
	switch act.Kind {
	case table.Fold, table.Check, table.Call, table.Raise:
	default:
		t.Errorf("suggestion kind = %q", act.Kind)
	}

	if _, _, err := m.Suggestion([16]byte{0xff}, "human"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestRemovePlayerVoidsAndRefunds(t *testing.T) {
	eco := fakeEco{}
	m := NewManager(eco, nil, 11, quietLog())
	if _, err := m.StartSession(aiPair(t, eco), 50); err != nil {
		t.Fatal(err)
	}
	before := eco.total()
	m.Tick() // some chips reach the pot

	m.RemovePlayer("a")

	events := m.Events()
	var voided *Event
	for i := range events {
		if events[i].Type == EventVoided {
			voided = &events[i]
		}
	}
	if voided == nil {
		t.Fatal("no voided event emitted")
	}
	if !voided.Outcome.Voided {
		t.Error("voided event outcome not flagged")
	}
	if m.Active() != 0 {
		t.Errorf("%d sessions still open after removal left one player", m.Active())
	}
	if got := eco.total(); got != before {
		t.Errorf("rollback changed total energy: %d -> %d", before, got)
	}
	st := m.Stats()
	if st.HandsVoided != 1 {
		t.Errorf("voided hands = %d, want 1", st.HandsVoided)
	}
	if st.HandsPlayed != 0 {
		t.Errorf("voided hand counted as played (%d)", st.HandsPlayed)
	}
}

func TestManualHandFlow(t *testing.T) {
	useConfig(t, "session:\n  auto_continue: false\n")
	eco := fakeEco{}
	m := NewManager(eco, nil, 13, quietLog())
	id, err := m.StartSession(aiPair(t, eco), 50)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := m.Session(id)

	if err := m.StartNewHand(id); !errors.Is(err, ErrHandInProgress) {
		t.Errorf("mid-hand StartNewHand: err = %v, want ErrHandInProgress", err)
	}
	for tick := 0; tick < 100 && s.Hands() == 0; tick++ {
		m.Tick()
	}
	if s.Hands() == 0 {
		t.Fatal("first hand never settled")
	}
	if s.Table() != nil {
		t.Fatal("auto-continue disabled but a new hand was dealt")
	}

	if err := m.StartNewHand(id); err != nil {
		t.Fatalf("StartNewHand: %v", err)
	}
	if s.Table() == nil {
		t.Error("no table after StartNewHand")
	}
}

func TestDealerRotates(t *testing.T) {
	eco := fakeEco{}
	m := NewManager(eco, nil, 17, quietLog())
	id, err := m.StartSession(aiPair(t, eco), 50)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := m.Session(id)
	first := s.Table().Dealer
	for tick := 0; tick < 100 && s.Hands() < 1; tick++ {
		m.Tick()
	}
	if s.Hands() < 1 || s.Table() == nil {
		t.Fatal("second hand never started")
	}
	if s.Table().Dealer == first {
		t.Error("dealer button did not move between hands")
	}
}

// sanity check the rollback outcome the manager propagates matches the
// ledger's contract for uninvolved parties.
func TestVoidEventExcludesCut(t *testing.T) {
	eco := fakeEco{}
	m := NewManager(eco, nil, 19, quietLog())
	if _, err := m.StartSession(aiPair(t, eco), 50); err != nil {
		t.Fatal(err)
	}
	m.RemovePlayer("b")
	for _, ev := range m.Events() {
		if ev.Type == EventVoided && ev.Outcome.HouseCut != 0 {
			t.Errorf("voided hand took a cut of %d", ev.Outcome.HouseCut)
		}
	}
}
