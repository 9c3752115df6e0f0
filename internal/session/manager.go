package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"spot-trainer/internal/dealer"
	"spot-trainer/internal/game"
	"spot-trainer/internal/handhistory"
	"spot-trainer/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	defaultMaxTables = 24
	maxSeatNameLen   = 32
)

var defaultStakes = game.Stakes{SmallBlind: 50, BigBlind: 100}

type Options struct {
	MaxTables       int
	BoardAttempts   int
	FirstHandNumber int64
	History         handhistory.Options
	Now             func() time.Time
}

// HandCounter numbers hands across every table of the process.
type HandCounter struct {
	next atomic.Int64
}

func NewHandCounter(first int64) *HandCounter {
	if first <= 0 {
		first = 1
	}
	c := &HandCounter{}
	c.next.Store(first)
	return c
}

func (c *HandCounter) Next() int64 {
	return c.next.Add(1) - 1
}

// Manager owns every session of the process. Sessions are created whole
// and never mutated afterwards; in-hand state changes only through
// WithTable.
type Manager struct {
	sessions      *store.Memory[*Session]
	dealer        *dealer.Dealer
	writer        *handhistory.Writer
	hands         *HandCounter
	maxTables     int
	boardAttempts int
	now           func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.MaxTables <= 0 {
		opts.MaxTables = defaultMaxTables
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions:      store.NewMemory[*Session](),
		dealer:        dealer.New(0, opts.BoardAttempts),
		writer:        handhistory.NewWriter(opts.History),
		hands:         NewHandCounter(opts.FirstHandNumber),
		maxTables:     opts.MaxTables,
		boardAttempts: opts.BoardAttempts,
		now:           opts.Now,
	}
}

// Create validates req, deals every table and stores the session. Nothing
// is stored when any table fails to deal.
func (m *Manager) Create(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error) {
	plan, err := m.prepare(req)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:        store.NewID(),
		CreatedAt: m.now(),
		Config:    plan.config,
		ranges:    plan.ranges,
		board:     plan.board,
		dealer:    m.dealer,
		writer:    m.writer,
		hands:     m.hands,
		now:       m.now,
	}
	if plan.config.Seed != 0 {
		sess.dealer = dealer.New(plan.config.Seed, m.boardAttempts)
	}
	for id := 1; id <= plan.config.Tables; id++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slot, err := sess.newSlot(id)
		if err != nil {
			log.Warn().Err(err).Int("table_id", id).Msg("session create rejected")
			return nil, fmt.Errorf("table %d: %w", id, err)
		}
		sess.tables = append(sess.tables, slot)
	}
	if err := m.sessions.Put(sess.ID, sess); err != nil {
		return nil, err
	}
	log.Info().
		Str("session_id", sess.ID).
		Int("tables", len(sess.tables)).
		Int64("starting_pot_fixed", plan.config.StartingPot.Fixed).
		Msg("session created")

	resp := &CreateSessionResponse{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
		SeatNames: sess.SeatNames(),
	}
	for _, slot := range sess.tables {
		resp.Tables = append(resp.Tables, slot.Info())
	}
	return resp, nil
}

func (m *Manager) Get(sessionID string) (*Session, error) {
	sess, err := m.sessions.Get(sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

func (m *Manager) List() []SessionSummary {
	now := m.now()
	items := m.sessions.List()
	out := make([]SessionSummary, 0, len(items))
	for _, sess := range items {
		sum := SessionSummary{
			SessionID:  sess.ID,
			TableCount: len(sess.tables),
			SeatNames:  sess.SeatNames(),
			CreatedAt:  sess.CreatedAt,
			AgeSeconds: int64(now.Sub(sess.CreatedAt) / time.Second),
		}
		for _, slot := range sess.tables {
			slot.mu.Lock()
			for i, on := range slot.presence {
				if on {
					sum.Connected[i]++
				}
			}
			slot.mu.Unlock()
		}
		out = append(out, sum)
	}
	return out
}

// View renders every table of the session for viewer (0 for a guest).
func (m *Manager) View(sessionID string, viewer int) (*SessionView, error) {
	if viewer < 0 || viewer > 2 {
		return nil, ErrSeatNotFound
	}
	sess, err := m.Get(sessionID)
	if err != nil {
		return nil, err
	}
	view := &SessionView{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
		Config:    sess.configSnapshot(),
		Viewer:    viewer,
		Tables:    make([]game.Snapshot, 0, len(sess.tables)),
	}
	for _, slot := range sess.tables {
		slot.mu.Lock()
		view.Tables = append(view.Tables, slot.Snapshot(viewer))
		slot.mu.Unlock()
	}
	return view, nil
}

// WithTable runs fn while holding the table's lock. Everything that reads
// or mutates a live table goes through here.
func (m *Manager) WithTable(sessionID string, tableID int, fn func(*TableSlot) error) error {
	sess, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	slot, err := sess.Table(tableID)
	if err != nil {
		return err
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return fn(slot)
}

type plan struct {
	config CreateSessionRequest
	ranges [2]dealer.Range
	board  *dealer.BoardFilter
}

func (m *Manager) prepare(req CreateSessionRequest) (plan, error) {
	var p plan
	cfg := req
	if cfg.Tables == 0 {
		cfg.Tables = 1
	}
	if cfg.Tables < 1 || cfg.Tables > m.maxTables {
		return p, fmt.Errorf("%w: %d (1-%d)", ErrInvalidTableCount, cfg.Tables, m.maxTables)
	}
	if cfg.Stakes == (game.Stakes{}) {
		cfg.Stakes = defaultStakes
	}
	if err := cfg.Stakes.Validate(); err != nil {
		return p, err
	}
	if err := cfg.Rake.Validate(); err != nil {
		return p, err
	}
	switch cfg.ButtonSeat {
	case 0:
		cfg.ButtonSeat = 2
	case 1, 2:
	default:
		return p, fmt.Errorf("%w: button seat %d", ErrInvalidRequest, cfg.ButtonSeat)
	}
	if err := checkPotSource(cfg.StartingPot, cfg.Stakes); err != nil {
		return p, err
	}

	for i := range cfg.Seats {
		seat := &cfg.Seats[i]
		seat.Name = strings.TrimSpace(seat.Name)
		if seat.Name == "" {
			seat.Name = fmt.Sprintf("Player %d", i+1)
		}
		if err := checkName(seat.Name); err != nil {
			return p, err
		}
		if seat.Stack <= 0 {
			return p, fmt.Errorf("%w: seat %d stack %d", game.ErrInvalidStack, i+1, seat.Stack)
		}
		r, err := dealer.ParseRange(seat.Range)
		if err != nil {
			return p, fmt.Errorf("seat %d: %w", i+1, err)
		}
		p.ranges[i] = r
		seat.Range = r.Weights()
	}
	if cfg.Seats[0].Name == cfg.Seats[1].Name {
		return p, fmt.Errorf("%w: both seats are named %q", ErrInvalidSeatName, cfg.Seats[0].Name)
	}

	board, err := cfg.Board.Compile()
	if err != nil {
		return p, err
	}
	p.config, p.board = cfg, board
	return p, nil
}

func checkName(name string) error {
	if len([]rune(name)) > maxSeatNameLen {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidSeatName, name, maxSeatNameLen)
	}
	// hand histories key action lines on "name: "
	if strings.ContainsAny(name, ":\n\r[]()") {
		return fmt.Errorf("%w: %q", ErrInvalidSeatName, name)
	}
	return nil
}

func checkPotSource(src StartingPotSource, stakes game.Stakes) error {
	if src.Fixed != 0 {
		if src.Min != 0 || src.Max != 0 {
			return fmt.Errorf("%w: fixed and ranged starting pot are exclusive", game.ErrInvalidStartingPot)
		}
		return handhistory.CheckStartingPot(src.Fixed, stakes)
	}
	lo, hi := evenBounds(src)
	if src.Min <= 0 || src.Max < src.Min || lo > hi {
		return fmt.Errorf("%w: need a fixed amount or min <= max", game.ErrInvalidStartingPot)
	}
	return handhistory.CheckStartingPot(lo, stakes)
}

func evenBounds(src StartingPotSource) (int64, int64) {
	lo, hi := src.Min, src.Max
	if lo%2 != 0 {
		lo++
	}
	if hi%2 != 0 {
		hi--
	}
	return lo, hi
}
