package engine

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func resume(t *testing.T, board Board, turn Color) *Session {
	t.Helper()
	s, err := ResumeSession(board, turn, TurnDice{})
	if err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}
	return s
}

func TestSessionOpeningMove(t *testing.T) {
	is := is.New(t)
	s := NewSession(White)
	is.Equal(s.Phase(), AwaitingRoll)
	is.True(s.ID() != "")

	is.NoErr(s.SetDice(DiceRoll{3, 5}))
	is.Equal(s.Phase(), DiceAvailable)

	res, err := s.ApplyMove(Move{From: Point(1), To: Point(4), Die: 3})
	is.NoErr(err)
	is.True(!res.Hit)
	is.True(!res.Won)
	is.Equal(res.Board.CountAt(White, Point(1)), 14)
	is.Equal(res.Board.CountAt(White, Point(4)), 1)
	is.Equal(res.Remaining, []int{5})
	is.Equal(s.Dice().Remaining(), []int{5})
	is.Equal(s.MovesPlayed(), 1)
}

func TestSessionHit(t *testing.T) {
	is := is.New(t)
	s := resume(t, boardWith(
		map[Location]int{Point(1): 14, Point(16): 1},
		map[Location]int{Point(13): 14, Point(20): 1},
	), White)
	is.NoErr(s.SetDice(DiceRoll{4, 2}))

	res, err := s.ApplyMove(Move{From: Point(16), To: Point(20), Die: 4})
	is.NoErr(err)
	is.True(res.Hit)
	b := s.Board()
	is.Equal(b.CountAt(Black, Point(20)), 0)
	is.Equal(b.CountAt(Black, Bar), 1)

	// Black must now enter before anything else.
	is.NoErr(s.EndTurn())
	is.NoErr(s.SetDice(DiceRoll{1, 6}))
	for _, m := range s.LegalMoves() {
		is.Equal(m.From, Bar)
	}
	_, err = s.ApplyMove(Move{From: Point(13), To: Point(14), Die: 1})
	is.True(errors.Is(err, ErrBarPriority))
}

func TestSessionBarPriorityScenario(t *testing.T) {
	is := is.New(t)
	s := resume(t, boardWith(
		map[Location]int{Bar: 1, Point(5): 14},
		map[Location]int{Point(13): 15},
	), White)
	is.NoErr(s.SetDice(DiceRoll{2, 3}))
	moves := s.LegalMoves()
	is.True(len(moves) > 0)
	for _, m := range moves {
		is.Equal(m.From, Bar)
	}
	_, err := s.LegalDestinationsFrom(Point(5))
	is.True(errors.Is(err, ErrBarPriority))
}

func TestSessionBearOffToWin(t *testing.T) {
	is := is.New(t)
	s := resume(t, boardWith(
		map[Location]int{Point(19): 5, Point(22): 5, Point(24): 5},
		map[Location]int{Point(13): 15},
	), White)

	order := []Location{Point(19), Point(22), Point(24)}
	borne := 0
	for !s.CheckWin(White) {
		is.NoErr(s.SetDice(DiceRoll{6, 6}))
		for s.Dice().Len() > 0 && borne < CheckersPerSide {
			b := s.Board()
			from := order[0]
			for b.CountAt(White, from) == 0 {
				order = order[1:]
				from = order[0]
			}
			res, err := s.ApplyMove(Move{From: from, To: Off, Die: 6})
			is.NoErr(err)
			borne++
			is.Equal(res.Won, borne == CheckersPerSide)
			is.Equal(s.CheckWin(White), borne == CheckersPerSide)
		}
		if s.CheckWin(White) {
			break
		}
		is.NoErr(s.EndTurn())
		is.NoErr(s.SetDice(DiceRoll{1, 2}))
		is.NoErr(s.EndTurn())
	}

	winner, over := s.Winner()
	is.True(over)
	is.Equal(winner, White)
	is.Equal(s.Phase(), GameOver)

	_, err := s.RollDice(NewSeededRoller(1))
	is.True(errors.Is(err, ErrGameOver))
	is.True(errors.Is(s.EndTurn(), ErrGameOver))
	_, err = s.ApplyMove(Move{From: Point(24), To: Off, Die: 6})
	is.True(errors.Is(err, ErrGameOver))
	snap := s.Snapshot()
	is.True(snap.Winner != nil)
	is.Equal(*snap.Winner, White)
}

func TestSessionBearOffAnyOvershoot(t *testing.T) {
	is := is.New(t)
	s := resume(t, boardWith(
		map[Location]int{Point(23): 15},
		map[Location]int{Point(13): 15},
	), White)
	is.NoErr(s.SetDice(DiceRoll{6, 2}))
	_, err := s.ApplyMove(Move{From: Point(23), To: Off, Die: 6})
	is.NoErr(err)
	_, err = s.ApplyMove(Move{From: Point(23), To: Off, Die: 2})
	is.NoErr(err)
	b := s.Board()
	is.Equal(b.CountAt(White, Off), 2)
}

func TestSessionRollOncePerTurn(t *testing.T) {
	is := is.New(t)
	s := NewSession(Black)
	roller := NewSeededRoller(3)
	d, err := s.RollDice(roller)
	is.NoErr(err)
	is.True(d.Valid())
	if d.IsDouble() {
		is.Equal(s.Dice().Len(), 4)
	} else {
		is.Equal(s.Dice().Len(), 2)
	}

	_, err = s.RollDice(roller)
	is.True(errors.Is(err, ErrAlreadyRolled))
	is.True(errors.Is(s.SetDice(DiceRoll{1, 1}), ErrAlreadyRolled))

	is.NoErr(s.EndTurn())
	is.Equal(s.Turn(), White)
	is.Equal(s.Phase(), AwaitingRoll)
	is.True(!s.Dice().Rolled())
	is.Equal(s.TurnsPlayed(), 1)
}

func TestSessionRejectsWithoutMutation(t *testing.T) {
	is := is.New(t)
	s := NewSession(White)

	_, err := s.ApplyMove(Move{From: Point(1), To: Point(4), Die: 3})
	is.True(errors.Is(err, ErrDiceNotRolled))
	is.True(errors.Is(s.SetDice(DiceRoll{0, 3}), ErrInvalidDice))

	is.NoErr(s.SetDice(DiceRoll{3, 5}))
	before := s.Snapshot()

	bad := []struct {
		move Move
		want error
	}{
		{Move{From: Point(1), To: Point(5), Die: 4}, ErrDieUnavailable},
		{Move{From: Point(1), To: Point(5), Die: 3}, ErrDestinationMismatch},
		{Move{From: Point(2), To: Point(5), Die: 3}, ErrNoCheckerAtSource},
		{Move{From: Point(1), To: Bar, Die: 3}, ErrOutOfBounds},
		{Move{From: Point(1), To: Off, Die: 5}, ErrDestinationMismatch},
	}
	for _, tc := range bad {
		_, err := s.ApplyMove(tc.move)
		is.True(errors.Is(err, tc.want))
		after := s.Snapshot()
		is.Equal(after.Board, before.Board)
		is.Equal(after.Remaining, before.Remaining)
		is.Equal(after.Phase, before.Phase)
	}
}

func TestSessionEndTurnWithoutRolling(t *testing.T) {
	is := is.New(t)
	s := NewSession(White)
	is.NoErr(s.EndTurn())
	is.Equal(s.Turn(), Black)
}

func TestSessionUsedDiceStayUsed(t *testing.T) {
	is := is.New(t)
	s := NewSession(White)
	is.NoErr(s.SetDice(DiceRoll{2, 2}))
	for i := 0; i < 4; i++ {
		_, err := s.ApplyMove(Move{From: Point(1), To: Point(3), Die: 2})
		is.NoErr(err)
	}
	is.True(!s.HasLegalMove())
	_, err := s.ApplyMove(Move{From: Point(1), To: Point(3), Die: 2})
	is.True(errors.Is(err, ErrDieUnavailable))
	b := s.Board()
	is.Equal(b.CountAt(White, Point(3)), 4)
}

func TestResumeSession(t *testing.T) {
	is := is.New(t)
	_, err := ResumeSession(EmptyBoard(), White, TurnDice{})
	is.True(errors.Is(err, ErrInvalidPosition))

	dice, err := TurnDiceFromRemaining(DiceRoll{4, 1}, []int{4})
	is.NoErr(err)
	s, err := ResumeSession(StartingBoard(), Black, dice)
	is.NoErr(err)
	is.Equal(s.Phase(), DiceAvailable)
	is.Equal(s.LegalMoves(), []Move{{From: Point(13), To: Point(17), Die: 4}})

	won := boardWith(map[Location]int{Off: 15}, map[Location]int{Point(13): 15})
	s, err = ResumeSession(won, Black, TurnDice{})
	is.NoErr(err)
	w, over := s.Winner()
	is.True(over)
	is.Equal(w, White)
}

// Random self-play through the public session API: checker conservation and
// the legal-move properties must hold after every single mutation.
func TestSessionRandomGamesConserveCheckers(t *testing.T) {
	is := is.New(t)
	rng := SeededRNG(11)
	roller := NewSeededRoller(12)
	for game := 0; game < 20; game++ {
		s := NewSession(Color(game % 2))
		for turn := 0; turn < 3000 && s.Phase() != GameOver; turn++ {
			_, err := s.RollDice(roller)
			is.NoErr(err)
			for {
				moves := s.LegalMoves()
				if len(moves) == 0 {
					break
				}
				b := s.Board()
				for _, m := range moves {
					if m.To.IsPoint() {
						is.True(b.CountAt(s.Turn().Opponent(), m.To) < 2)
					}
					if b.CountAt(s.Turn(), Bar) > 0 {
						is.Equal(m.From, Bar)
					}
				}
				res, err := s.ApplyMove(moves[rng.Intn(len(moves))])
				is.NoErr(err)
				is.Equal(res.Board.Total(White), CheckersPerSide)
				is.Equal(res.Board.Total(Black), CheckersPerSide)
				if res.Won {
					break
				}
			}
			if s.Phase() == GameOver {
				break
			}
			is.NoErr(s.EndTurn())
		}
	}
}
