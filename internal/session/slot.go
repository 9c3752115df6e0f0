package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"spot-trainer/internal/dealer"
	"spot-trainer/internal/game"
	"spot-trainer/internal/handhistory"

	"github.com/rs/zerolog/log"
)

// Session is a set of tables dealt from one configuration.
type Session struct {
	ID        string
	CreatedAt time.Time
	Config    CreateSessionRequest

	ranges [2]dealer.Range
	board  *dealer.BoardFilter
	dealer *dealer.Dealer
	writer *handhistory.Writer
	hands  *HandCounter
	now    func() time.Time
	tables []*TableSlot

	// guards Config.Seats names, which change on rename
	nameMu sync.Mutex
}

// SeatNames are the names most recently given to each seat on any table.
func (s *Session) SeatNames() [2]string {
	s.nameMu.Lock()
	defer s.nameMu.Unlock()
	return [2]string{s.Config.Seats[0].Name, s.Config.Seats[1].Name}
}

func (s *Session) configSnapshot() CreateSessionRequest {
	s.nameMu.Lock()
	defer s.nameMu.Unlock()
	return s.Config
}

func (s *Session) TableCount() int { return len(s.tables) }

// Table returns the slot with the given 1-based id.
func (s *Session) Table(id int) (*TableSlot, error) {
	if id < 1 || id > len(s.tables) {
		return nil, ErrTableNotFound
	}
	return s.tables[id-1], nil
}

func (s *Session) startingPot() int64 {
	src := s.Config.StartingPot
	if src.Fixed != 0 {
		return src.Fixed
	}
	lo, hi := evenBounds(src)
	return lo + 2*s.dealer.Int63n((hi-lo)/2+1)
}

func (s *Session) nextHand() (game.HandStart, error) {
	deal, err := s.dealer.DealHand(s.ranges, s.board)
	if err != nil {
		return game.HandStart{}, err
	}
	return game.HandStart{
		Number:      s.hands.Next(),
		StartingPot: s.startingPot(),
		Deal:        deal,
		At:          s.now(),
	}, nil
}

func (s *Session) newSlot(id int) (*TableSlot, error) {
	start, err := s.nextHand()
	if err != nil {
		return nil, err
	}
	cfg := s.Config
	tbl, err := game.NewTable(
		game.TableConfig{ID: id, ButtonSeat: cfg.ButtonSeat, Stakes: cfg.Stakes, Rake: cfg.Rake},
		[2]game.SeatSetup{
			{Name: cfg.Seats[0].Name, Stack: cfg.Seats[0].Stack},
			{Name: cfg.Seats[1].Name, Stack: cfg.Seats[1].Stack},
		},
		start,
	)
	if err != nil {
		return nil, err
	}
	slot := &TableSlot{session: s, table: tbl}
	slot.collect()
	return slot, nil
}

// TableSlot is one live table plus what the session tracks around it.
// Methods other than ID and SessionID expect the caller to hold the lock,
// which Manager.WithTable does.
type TableSlot struct {
	mu       sync.Mutex
	session  *Session
	table    *game.Table
	presence [2]bool
	records  []game.HandRecord
}

func (t *TableSlot) ID() int { return t.table.ID }

func (t *TableSlot) SessionID() string { return t.session.ID }

// Table exposes the engine for reads.
func (t *TableSlot) Table() *game.Table { return t.table }

// Act applies one action and records the hand when it completes.
func (t *TableSlot) Act(seat int, kind game.ActionKind, amount int64) (game.Outcome, error) {
	out, err := t.table.Apply(seat, kind, amount)
	if err != nil {
		return out, err
	}
	if out.HandComplete {
		t.collect()
	}
	return out, nil
}

// collect stores the record of a hand that just completed.
func (t *TableSlot) collect() {
	rec, ok := t.table.Record()
	if !ok {
		return
	}
	t.records = append(t.records, rec)
	winner, split := t.table.Winner()
	log.Info().
		Str("session_id", t.session.ID).
		Int("table_id", t.table.ID).
		Int64("hand_number", rec.Number).
		Int64("pot", rec.Pot).
		Int64("rake", rec.Rake).
		Int("winner_seat", winner).
		Bool("split", split).
		Msg("hand complete")
}

// NewHand re-deals a completed table. Stacks carry over.
func (t *TableSlot) NewHand() error {
	if !t.table.Complete {
		return game.ErrHandInProgress
	}
	start, err := t.session.nextHand()
	if err != nil {
		return err
	}
	if err := t.table.NewHand(start); err != nil {
		return err
	}
	t.collect()
	return nil
}

func (t *TableSlot) SetPresence(seat int, connected bool) error {
	if seat < 1 || seat > 2 {
		return ErrSeatNotFound
	}
	t.presence[seat-1] = connected
	return nil
}

func (t *TableSlot) Connected(seat int) bool {
	if seat < 1 || seat > 2 {
		return false
	}
	return t.presence[seat-1]
}

// Rename updates a seat's display name. Empty names keep the current one.
func (t *TableSlot) Rename(seat int, name string) error {
	s, err := t.table.Seat(seat)
	if err != nil {
		return ErrSeatNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" || name == s.Name {
		return nil
	}
	if err := checkName(name); err != nil {
		return err
	}
	sess := t.session
	sess.nameMu.Lock()
	defer sess.nameMu.Unlock()
	opp := game.Opponent(seat)
	if other, _ := t.table.Seat(opp); other.Name == name || sess.Config.Seats[opp-1].Name == name {
		return fmt.Errorf("%w: %q is taken", ErrInvalidSeatName, name)
	}
	s.Name = name
	sess.Config.Seats[seat-1].Name = name
	return nil
}

// Snapshot is the table as seen by viewer, presence included.
func (t *TableSlot) Snapshot(viewer int) game.Snapshot {
	snap := t.table.SnapshotFor(viewer)
	for i := range snap.Seats {
		snap.Seats[i].Connected = t.Connected(snap.Seats[i].SeatID)
	}
	return snap
}

func (t *TableSlot) Info() TableInfo {
	tbl := t.table
	info := TableInfo{
		TableID:     tbl.ID,
		HandNumber:  tbl.HandNumber,
		Street:      tbl.Street,
		Board:       game.CardStrings(tbl.Board()),
		StartingPot: tbl.StartingPot,
		Pot:         tbl.Pot,
		Complete:    tbl.Complete,
		HandsPlayed: len(t.records),
	}
	for _, s := range tbl.Seats {
		info.Seats = append(info.Seats, SeatPresence{
			SeatID:    s.ID,
			Name:      s.Name,
			Stack:     s.Stack,
			Connected: t.Connected(s.ID),
		})
	}
	return info
}

func (t *TableSlot) Records() []game.HandRecord {
	return append([]game.HandRecord{}, t.records...)
}

// LastHistory renders the most recent completed hand for hero.
func (t *TableSlot) LastHistory(hero int) (string, error) {
	if len(t.records) == 0 {
		return "", ErrNoHistory
	}
	return t.session.writer.Write(t.records[len(t.records)-1], hero)
}

// Export renders every completed hand of the table for hero, oldest first.
func (t *TableSlot) Export(hero int) (string, error) {
	if hero < 0 || hero > 2 {
		return "", ErrSeatNotFound
	}
	if len(t.records) == 0 {
		return "", ErrNoHistory
	}
	texts := make([]string, 0, len(t.records))
	for _, rec := range t.records {
		text, err := t.session.writer.Write(rec, hero)
		if err != nil {
			return "", fmt.Errorf("hand %d: %w", rec.Number, err)
		}
		texts = append(texts, text)
	}
	return handhistory.Join(texts), nil
}
