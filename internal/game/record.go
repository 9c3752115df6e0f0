package game

import "time"

type SeatRecord struct {
	ID            int
	Name          string
	StartingStack int64
	EndStack      int64
	Hole          [2]Card
	Collected     int64
	Value         HandValue
}

// HandRecord is an immutable copy of a completed hand, the input of the
// hand-history writer.
type HandRecord struct {
	Number      int64
	TableID     int
	StartedAt   time.Time
	Stakes      Stakes
	Button      int
	Seats       [2]SeatRecord
	StartingPot int64
	Board       []Card
	Actions     []Action
	Pot         int64
	Uncalled    int64
	Rake        int64
	WinnerSeat  int
	Split       bool
	Showdown    bool
}

// UncalledSeat is the seat that gets the uncalled wager back, 0 if none.
func (r HandRecord) UncalledSeat() int {
	if r.Uncalled == 0 {
		return 0
	}
	return r.WinnerSeat
}

// Record snapshots the completed hand. ok is false while the hand runs.
func (t *Table) Record() (HandRecord, bool) {
	if !t.Complete {
		return HandRecord{}, false
	}
	rec := HandRecord{
		Number:      t.HandNumber,
		TableID:     t.ID,
		StartedAt:   t.StartedAt,
		Stakes:      t.Stakes,
		Button:      t.Button,
		StartingPot: t.StartingPot,
		Board:       t.Board(),
		Actions:     t.Log(),
		Pot:         t.Pot,
		Uncalled:    t.uncalled,
		Rake:        t.rake,
		WinnerSeat:  t.winner,
		Split:       t.split,
		Showdown:    t.showdown,
	}
	for i, s := range t.Seats {
		rec.Seats[i] = SeatRecord{
			ID:            s.ID,
			Name:          s.Name,
			StartingStack: s.StartingStack,
			EndStack:      s.Stack,
			Hole:          s.Hole,
			Collected:     t.collected[i],
			Value:         t.values[i],
		}
	}
	return rec, true
}
