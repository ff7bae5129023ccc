package session

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"fishtank/ai"
	"fishtank/config"
	"fishtank/ledger"
	"fishtank/metrics"
	"fishtank/table"
	"fishtank/traits"
)

// Manager owns the active sessions and advances them cooperatively. It is
// single-threaded by design: the simulation loop calls Tick once per frame
// and drains Events afterwards.
type Manager struct {
	log *slog.Logger
	eco Economy
	met *metrics.Metrics // optional
	rng *rand.Rand

	sessions map[uuid.UUID]*Session
	order    []uuid.UUID // creation order, the stable tick order
	events   []Event
	stats    Stats
}

func NewManager(eco Economy, met *metrics.Metrics, seed int64, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:      log,
		eco:      eco,
		met:      met,
		rng:      rand.New(rand.NewSource(seed)),
		sessions: make(map[uuid.UUID]*Session),
		stats:    newStats(),
	}
}

// StartSession seats the given players with one stake each. Every player
// must be able to cover the stake out of their current balance; the stake is
// escrowed per hand and balances only move at resolution.
func (m *Manager) StartSession(players []PlayerSpec, stake int64) (uuid.UUID, error) {
	cfg := config.Cfg()
	if len(m.sessions) >= cfg.Session.MaxTables {
		return uuid.Nil, ErrTableLimit
	}
	if len(players) < cfg.Poker.MinPlayers || len(players) > cfg.Poker.MaxPlayers {
		return uuid.Nil, table.ErrSeatCount
	}
	if stake < cfg.Economy.MinStake {
		return uuid.Nil, fmt.Errorf("%w: stake %d below minimum %d",
			ErrInsufficientStake, stake, cfg.Economy.MinStake)
	}
	for _, p := range players {
		balance, ok := m.eco.Balance(p.ID)
		if !ok || balance < stake {
			return uuid.Nil, fmt.Errorf("%w: player %s has %d, needs %d",
				ErrInsufficientStake, p.ID, balance, stake)
		}
	}

	s := &Session{
		ID:      uuid.New(),
		Stake:   stake,
		players: append([]PlayerSpec(nil), players...),
		dealer:  m.rng.Intn(len(players)),
	}
	if err := m.newHand(s); err != nil {
		return uuid.Nil, err
	}
	m.sessions[s.ID] = s
	m.order = append(m.order, s.ID)
	m.stats.SessionsStarted++
	if m.met != nil {
		m.met.ActiveSessions.Inc()
	}
	m.log.Info("session started", "session", s.ID, "players", len(players), "stake", stake)
	return s.ID, nil
}

func (m *Manager) newHand(s *Session) error {
	cfg := config.Cfg()
	seatings := make([]table.Seating, len(s.players))
	for i, p := range s.players {
		seatings[i] = table.Seating{ID: p.ID, Species: p.Species, Stake: s.Stake}
	}
	tbl, err := table.New(seatings, s.dealer, cfg.Poker.SmallBlind, cfg.Poker.BigBlind, m.rng.Int63())
	if err != nil {
		return err
	}
	s.tbl = tbl
	s.pending = nil
	s.pendingFor = ""
	s.waiting = 0
	return nil
}

// Session looks up an active session.
func (m *Manager) Session(id uuid.UUID) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Active is the number of open sessions.
func (m *Manager) Active() int { return len(m.sessions) }

// Tick advances every session by at most one decision, in session creation
// order for reproducibility.
func (m *Manager) Tick() {
	for _, id := range append([]uuid.UUID(nil), m.order...) {
		s, ok := m.sessions[id]
		if !ok {
			continue
		}
		m.advanceOne(s)
	}
}

// advanceOne settles a terminal table or plays a single decision.
func (m *Manager) advanceOne(s *Session) {
	if s.tbl == nil {
		return
	}
	if s.tbl.Terminal() {
		m.settleHand(s)
		return
	}

	id := s.tbl.TurnID()
	spec := s.spec(id)
	if spec == nil {
		// Seat belongs to a player no longer in the roster; should have
		// been voided at removal.
		m.log.Error("orphaned seat, voiding hand", "session", s.ID, "player", id)
		s.tbl.MarkVoid(id)
		return
	}
	if spec.Policy == nil {
		m.driveHuman(s, id)
		return
	}

	act, reason := spec.Policy.Decide(s.tbl.ViewFor(id))
	if err := s.tbl.Apply(id, act); err != nil {
		m.log.Warn("policy chose illegal action, folding",
			"session", s.ID, "player", id, "action", act.Kind, "err", err)
		s.tbl.Apply(id, table.Action{Kind: table.Fold})
		return
	}
	m.log.Debug("action", "session", s.ID, "player", id, "action", act.Kind,
		"amount", act.Amount, "reason", reason)
}

// driveHuman applies the pending command if it belongs to the player on
// turn, otherwise waits out the configured timeout before folding for them.
func (m *Manager) driveHuman(s *Session, id table.PlayerID) {
	if s.pending != nil && s.pendingFor == id {
		act := *s.pending
		s.pending = nil
		s.waiting = 0
		if err := s.tbl.Apply(id, act); err != nil {
			m.log.Warn("rejected human action", "session", s.ID, "player", id, "err", err)
		}
		return
	}
	s.waiting++
	if s.waiting > config.Cfg().Session.HumanTimeoutTicks {
		m.log.Info("human timed out, folding", "session", s.ID, "player", id)
		s.tbl.Apply(id, table.Action{Kind: table.Fold})
		s.waiting = 0
	}
}

// settleHand resolves a terminal table through the ledger, credits the
// economy, emits the outcome event and either deals the next hand or closes
// the session.
func (m *Manager) settleHand(s *Session) {
	if s.tbl.Phase == table.Void {
		// Deck exhaustion or a removal that slipped past RemovePlayer;
		// fatal for this session only.
		m.voidHand(s)
		m.close(s)
		return
	}

	out, err := ledger.Resolve(s.tbl, config.Cfg().Economy.HouseCutRate)
	if err != nil {
		m.log.Error("settlement failed, rolling back", "session", s.ID, "err", err)
		m.voidHand(s)
		m.close(s)
		return
	}
	m.apply(out)
	s.hands++
	m.stats.record(s.tbl, out)
	if m.met != nil {
		m.met.HandsTotal.Inc()
		m.met.EnergyTransactedTotal.Add(float64(out.TotalTransacted()))
		for _, w := range out.Winners {
			if seat := s.tbl.Seat(w); seat != nil {
				m.met.WinsTotal.WithLabelValues(traits.SpeciesName(seat.Species)).Inc()
			}
		}
	}
	m.events = append(m.events, Event{Session: s.ID, Hand: s.hands, Type: EventOutcome, Outcome: out})
	m.log.Info("hand settled", "session", s.ID, "hand", s.hands,
		"winners", out.Winners, "cut", out.HouseCut, "hand_rank", out.WinningHand)

	s.tbl = nil
	if config.Cfg().Session.AutoContinue {
		m.continueOrClose(s)
	}
}

// voidHand rolls back the current hand without counting it in any statistic
// beyond the voided counter.
func (m *Manager) voidHand(s *Session) {
	out := ledger.Rollback(s.tbl)
	m.apply(out)
	m.stats.HandsVoided++
	if m.met != nil {
		m.met.HandsVoidedTotal.Inc()
	}
	m.events = append(m.events, Event{Session: s.ID, Hand: s.hands + 1, Type: EventVoided, Outcome: out})
	m.log.Info("hand voided", "session", s.ID)
	s.tbl = nil
}

func (m *Manager) apply(out *ledger.Outcome) {
	for id, delta := range out.Deltas {
		if delta != 0 {
			m.eco.Credit(id, delta)
		}
	}
}

// continueOrClose deals the next hand for every player that can still cover
// the stake, or closes the session when fewer than two can.
func (m *Manager) continueOrClose(s *Session) {
	kept := s.players[:0]
	for _, p := range s.players {
		if balance, ok := m.eco.Balance(p.ID); ok && balance >= s.Stake {
			kept = append(kept, p)
		}
	}
	s.players = kept
	if len(s.players) < config.Cfg().Poker.MinPlayers {
		m.close(s)
		return
	}
	s.dealer = (s.dealer + 1) % len(s.players)
	if err := m.newHand(s); err != nil {
		m.log.Error("could not deal next hand", "session", s.ID, "err", err)
		m.close(s)
	}
}

func (m *Manager) close(s *Session) {
	if _, ok := m.sessions[s.ID]; !ok {
		return
	}
	delete(m.sessions, s.ID)
	if m.met != nil {
		m.met.ActiveSessions.Dec()
	}
	m.log.Info("session closed", "session", s.ID, "hands", s.hands)
}

// SubmitAction queues a human player's command; it is applied on the next
// tick of their turn. Commands out of turn are rejected immediately.
func (m *Manager) SubmitAction(sessionID uuid.UUID, player table.PlayerID, act table.Action) error {
	s, err := m.Session(sessionID)
	if err != nil {
		return err
	}
	if s.tbl == nil || s.tbl.Terminal() {
		return table.ErrHandFinished
	}
	if s.tbl.TurnID() != player {
		return table.ErrNotPlayersTurn
	}
	s.pending = &act
	s.pendingFor = player
	return nil
}

// RequestAIAction drives exactly one AI decision forward, out of band of the
// tick loop.
func (m *Manager) RequestAIAction(sessionID uuid.UUID) error {
	s, err := m.Session(sessionID)
	if err != nil {
		return err
	}
	if s.tbl == nil || s.tbl.Terminal() {
		return table.ErrHandFinished
	}
	spec := s.spec(s.tbl.TurnID())
	if spec == nil || spec.Policy == nil {
		return table.ErrNotPlayersTurn
	}
	m.advanceOne(s)
	return nil
}

// StartNewHand deals the next hand of a session whose previous hand has
// settled. Only needed when auto-continue is disabled.
func (m *Manager) StartNewHand(sessionID uuid.UUID) error {
	s, err := m.Session(sessionID)
	if err != nil {
		return err
	}
	if s.tbl != nil && !s.tbl.Terminal() {
		return ErrHandInProgress
	}
	if s.tbl != nil {
		m.settleHand(s)
		if _, stillOpen := m.sessions[s.ID]; !stillOpen {
			return ErrSessionNotFound
		}
		if s.tbl != nil {
			return nil // auto-continue already dealt
		}
	}
	m.continueOrClose(s)
	if _, stillOpen := m.sessions[s.ID]; !stillOpen {
		return ErrSessionNotFound
	}
	return nil
}

// Suggestion is a non-binding autopilot hint for a human seat.
func (m *Manager) Suggestion(sessionID uuid.UUID, player table.PlayerID) (table.Action, string, error) {
	s, err := m.Session(sessionID)
	if err != nil {
		return table.Action{}, "", err
	}
	if s.tbl == nil || s.tbl.Terminal() {
		return table.Action{}, "", table.ErrHandFinished
	}
	act, reason := ai.Suggest(s.tbl.ViewFor(player), m.rng.Int63())
	return act, reason, nil
}

// RemovePlayer takes a player out of every session they are seated in,
// voiding and rolling back any hand in progress.
func (m *Manager) RemovePlayer(player table.PlayerID) {
	for _, id := range append([]uuid.UUID(nil), m.order...) {
		s, ok := m.sessions[id]
		if !ok || s.spec(player) == nil {
			continue
		}
		if s.tbl != nil && !s.tbl.Terminal() {
			s.tbl.MarkVoid(player)
			m.voidHand(s)
		}
		s.dropPlayer(player)
		if len(s.players) < config.Cfg().Poker.MinPlayers {
			m.close(s)
			continue
		}
		if s.tbl == nil && config.Cfg().Session.AutoContinue {
			m.continueOrClose(s)
		}
	}
}

// Events drains the outcome feed accumulated since the last call.
func (m *Manager) Events() []Event {
	ev := m.events
	m.events = nil
	return ev
}

// Stats returns a copy of the aggregate counters.
func (m *Manager) Stats() Stats { return m.stats.clone() }
