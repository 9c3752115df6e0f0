package handhistory

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"spot-trainer/internal/game"
)

var (
	headerRe    = regexp.MustCompile(`^(.+?) Hand #(\d+):\s+Hold'em No Limit \((\S+)/(\S+)(?: \w+)?\) - (\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) UTC`)
	tableRe     = regexp.MustCompile(`^Table '(.+)' 2-max Seat #(\d) is the button$`)
	seatRe      = regexp.MustCompile(`^Seat (\d): (.+) \((\S+) in chips\)$`)
	dealtRe     = regexp.MustCompile(`^Dealt to (.+) \[(.+)\]$`)
	streetRe    = regexp.MustCompile(`^\*\*\* (FLOP|TURN|RIVER) \*\*\* \[([^\]]+)\](?: \[([^\]]+)\])?$`)
	uncalledRe  = regexp.MustCompile(`^Uncalled bet \((\S+)\) returned to (.+)$`)
	collectedRe = regexp.MustCompile(`^(.+) collected (\S+) from pot$`)
	totalRe     = regexp.MustCompile(`^Total pot (\S+) \| Rake (\S+)$`)
	boardRe     = regexp.MustCompile(`^Board \[(.+)\]$`)
	raiseRe     = regexp.MustCompile(`^raises (\S+) to (\S+)$`)
	showsRe     = regexp.MustCompile(`^shows \[(.+?)\]`)
)

type ParsedSeat struct {
	ID        int
	Name      string
	Stack     int64
	Hole      []game.Card
	Collected int64
}

type ParsedAction struct {
	Street game.Street
	Seat   int
	Kind   game.ActionKind
	Amount int64
	AllIn  bool
}

// Parsed is a hand history read back from text. Action amounts are the
// chips each action added, as in the table log.
type Parsed struct {
	Site        string
	HandNumber  int64
	StartedAt   time.Time
	Table       string
	Button      int
	SmallBlind  int64
	BigBlind    int64
	Seats       []ParsedSeat
	Hero        string
	Board       []game.Card
	Actions     []ParsedAction
	StartingPot int64
	TotalPot    int64
	Uncalled    int64
	Rake        int64
}

// StreetActions filters the actions of one street.
func (p Parsed) StreetActions(s game.Street) []ParsedAction {
	var out []ParsedAction
	for _, a := range p.Actions {
		if a.Street == s {
			out = append(out, a)
		}
	}
	return out
}

// Pot is the table pot: the starting pot plus everything added after the
// flop, uncalled chips included.
func (p Parsed) Pot() int64 {
	pot := p.StartingPot
	for _, a := range p.Actions {
		if a.Street != game.StreetPreFlop {
			pot += a.Amount
		}
	}
	return pot
}

func (p *Parsed) seatByName(line string) (*ParsedSeat, string, bool) {
	// longest name first so "Bob" never shadows "Bob2"
	idx := make([]int, len(p.Seats))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return len(p.Seats[idx[a]].Name) > len(p.Seats[idx[b]].Name) })
	for _, i := range idx {
		s := &p.Seats[i]
		if rest, ok := strings.CutPrefix(line, s.Name+": "); ok {
			return s, rest, true
		}
	}
	return nil, "", false
}

func (p *Parsed) seatNamed(name string) *ParsedSeat {
	for i := range p.Seats {
		if p.Seats[i].Name == name {
			return &p.Seats[i]
		}
	}
	return nil
}

// Parse reads one hand history record.
func Parse(text string) (Parsed, error) {
	var p Parsed
	street := game.StreetPreFlop
	totals := map[int]int64{}
	inSummary := false
	sawHeader := false

	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \r")
		if line == "" {
			continue
		}
		fail := func(err error) (Parsed, error) {
			return Parsed{}, fmt.Errorf("line %d %q: %w", lineNo, line, err)
		}

		if !sawHeader {
			m := headerRe.FindStringSubmatch(line)
			if m == nil {
				return fail(ErrMalformed)
			}
			sawHeader = true
			p.Site = m[1]
			p.HandNumber, _ = strconv.ParseInt(m[2], 10, 64)
			var err error
			if p.SmallBlind, err = ParseMoney(m[3]); err != nil {
				return fail(err)
			}
			if p.BigBlind, err = ParseMoney(m[4]); err != nil {
				return fail(err)
			}
			if p.StartedAt, err = time.ParseInLocation(timeLayout, m[5], time.UTC); err != nil {
				return fail(ErrMalformed)
			}
			continue
		}

		if inSummary {
			if m := totalRe.FindStringSubmatch(line); m != nil {
				var err error
				if p.TotalPot, err = ParseMoney(m[1]); err != nil {
					return fail(err)
				}
				if p.Rake, err = ParseMoney(m[2]); err != nil {
					return fail(err)
				}
			} else if m := boardRe.FindStringSubmatch(line); m != nil {
				cards, err := game.ParseCards(m[1])
				if err != nil {
					return fail(err)
				}
				if len(cards) > len(p.Board) {
					p.Board = cards
				}
			}
			continue
		}

		switch {
		case line == "*** HOLE CARDS ***":
			street = game.StreetPreFlop
		case line == "*** SHOW DOWN ***":
		case line == "*** SUMMARY ***":
			inSummary = true
		case strings.HasPrefix(line, "*** "):
			m := streetRe.FindStringSubmatch(line)
			if m == nil {
				return fail(ErrMalformed)
			}
			street = game.Street(strings.ToLower(m[1]))
			totals = map[int]int64{}
			cards, err := game.ParseCards(strings.TrimSpace(m[2] + " " + m[3]))
			if err != nil {
				return fail(err)
			}
			p.Board = cards
		default:
			if err := p.parseLine(line, street, totals); err != nil {
				return fail(err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Parsed{}, err
	}
	if !sawHeader || len(p.Seats) != 2 || p.Button == 0 {
		return Parsed{}, fmt.Errorf("%w: incomplete record", ErrMalformed)
	}
	return p, nil
}

func (p *Parsed) parseLine(line string, street game.Street, totals map[int]int64) error {
	if m := tableRe.FindStringSubmatch(line); m != nil {
		p.Table = m[1]
		p.Button, _ = strconv.Atoi(m[2])
		return nil
	}
	if m := seatRe.FindStringSubmatch(line); m != nil && len(p.Actions) == 0 {
		id, _ := strconv.Atoi(m[1])
		stack, err := ParseMoney(m[3])
		if err != nil {
			return err
		}
		p.Seats = append(p.Seats, ParsedSeat{ID: id, Name: m[2], Stack: stack})
		return nil
	}
	if m := dealtRe.FindStringSubmatch(line); m != nil {
		cards, err := game.ParseCards(m[2])
		if err != nil {
			return err
		}
		p.Hero = m[1]
		if s := p.seatNamed(m[1]); s != nil {
			s.Hole = cards
		}
		return nil
	}
	if m := uncalledRe.FindStringSubmatch(line); m != nil {
		v, err := ParseMoney(m[1])
		if err != nil {
			return err
		}
		p.Uncalled = v
		return nil
	}
	if m := collectedRe.FindStringSubmatch(line); m != nil {
		v, err := ParseMoney(m[2])
		if err != nil {
			return err
		}
		if s := p.seatNamed(m[1]); s != nil {
			s.Collected += v
		}
		return nil
	}

	seat, rest, ok := p.seatByName(line)
	if !ok {
		return ErrMalformed
	}
	if m := showsRe.FindStringSubmatch(rest); m != nil {
		cards, err := game.ParseCards(m[1])
		if err != nil {
			return err
		}
		seat.Hole = cards
		return nil
	}
	if rest == "doesn't show hand" || rest == "mucks hand" {
		return nil
	}

	a := ParsedAction{Street: street, Seat: seat.ID}
	if body, ok := strings.CutSuffix(rest, " and is all-in"); ok {
		a.AllIn, rest = true, body
	}
	verb, arg, _ := strings.Cut(rest, " ")
	var err error
	switch verb {
	case "folds":
		a.Kind = game.ActionFold
	case "checks":
		a.Kind = game.ActionCheck
	case "calls":
		a.Kind = game.ActionCall
		a.Amount, err = ParseMoney(arg)
	case "bets":
		a.Kind = game.ActionBet
		a.Amount, err = ParseMoney(arg)
	case "raises":
		m := raiseRe.FindStringSubmatch(rest)
		if m == nil {
			return ErrMalformed
		}
		var to int64
		if to, err = ParseMoney(m[2]); err == nil {
			a.Kind = game.ActionRaise
			a.Amount = to - totals[seat.ID]
		}
	case "posts":
		a.Kind = game.ActionPostBlind
		fields := strings.Fields(arg)
		if len(fields) == 0 {
			return ErrMalformed
		}
		a.Amount, err = ParseMoney(fields[len(fields)-1])
	default:
		return ErrMalformed
	}
	if err != nil {
		return err
	}
	totals[seat.ID] += a.Amount
	p.Actions = append(p.Actions, a)
	if street == game.StreetPreFlop {
		p.StartingPot += a.Amount
	}
	return nil
}

// ParseAll splits a multi-hand export and parses every record.
func ParseAll(text string) ([]Parsed, error) {
	var (
		out   []Parsed
		cur   []string
		flush = func() error {
			if len(cur) == 0 {
				return nil
			}
			p, err := Parse(strings.Join(cur, "\n"))
			if err != nil {
				return err
			}
			out = append(out, p)
			cur = cur[:0]
			return nil
		}
	)
	for _, line := range strings.Split(text, "\n") {
		if headerRe.MatchString(line) {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		if len(cur) > 0 || strings.TrimSpace(line) != "" {
			cur = append(cur, line)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
