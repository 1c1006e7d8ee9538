package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Phase is the turn state of a session.
type Phase int

const (
	AwaitingRoll Phase = iota
	DiceAvailable
	GameOver
)

func (p Phase) String() string {
	return [...]string{"awaiting_roll", "dice_available", "game_over"}[p]
}

// MoveResult is what an applied move reports back to the driver.
type MoveResult struct {
	Move      Move
	Hit       bool  // a lone opposing checker was sent to the bar
	Won       bool  // the mover has borne off all checkers
	Board     Board // position after the move
	Remaining []int // dice still available this turn
}

// Session is one game of long nardy. All mutation goes through RollDice,
// SetDice, ApplyMove and EndTurn. A Session is not safe for concurrent use:
// the driver must serialize calls.
type Session struct {
	id     string
	turn   Color
	board  Board
	dice   TurnDice
	phase  Phase
	winner Color
	moves  int
	turns  int
}

// NewSession starts a game from the starting position with first to move.
func NewSession(first Color) *Session {
	s := &Session{
		id:    uuid.NewString(),
		turn:  first,
		board: StartingBoard(),
	}
	log.Debug().Str("session", s.id).Stringer("first", first).Msg("session-started")
	return s
}

// ResumeSession rebuilds a session mid-game from a position, the color to
// move and its dice state. An unrolled dice state resumes in AwaitingRoll.
func ResumeSession(board Board, turn Color, dice TurnDice) (*Session, error) {
	if !turn.Valid() {
		return nil, fmt.Errorf("%w: unknown color %d", ErrInvalidPosition, turn)
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		id:    uuid.NewString(),
		turn:  turn,
		board: board,
		dice:  dice,
	}
	switch {
	case CheckWin(&board, White):
		s.phase, s.winner = GameOver, White
	case CheckWin(&board, Black):
		s.phase, s.winner = GameOver, Black
	case dice.Rolled():
		s.phase = DiceAvailable
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Turn returns the color to move.
func (s *Session) Turn() Color { return s.turn }

// Phase returns the current turn state.
func (s *Session) Phase() Phase { return s.phase }

// Dice returns the dice state of the current turn.
func (s *Session) Dice() TurnDice { return s.dice }

// Board returns a copy of the current position.
func (s *Session) Board() Board { return s.board.Clone() }

// MovesPlayed returns the number of checker moves applied so far.
func (s *Session) MovesPlayed() int { return s.moves }

// TurnsPlayed returns the number of completed turns.
func (s *Session) TurnsPlayed() int { return s.turns }

// Winner returns the winning color once the game is over.
func (s *Session) Winner() (Color, bool) {
	return s.winner, s.phase == GameOver
}

// CheckWin reports whether color has borne off all checkers.
func (s *Session) CheckWin(color Color) bool {
	return CheckWin(&s.board, color)
}

// RollDice rolls for the color to move. Only one roll is allowed per turn.
func (s *Session) RollDice(r Roller) (DiceRoll, error) {
	if err := s.canRoll(); err != nil {
		return DiceRoll{}, err
	}
	d := r.Roll()
	if !d.Valid() {
		return DiceRoll{}, fmt.Errorf("%w: roller produced %v", ErrInvalidDice, d)
	}
	s.startTurn(d)
	return d, nil
}

// SetDice uses an externally rolled pair instead of a Roller.
func (s *Session) SetDice(d DiceRoll) error {
	if err := s.canRoll(); err != nil {
		return err
	}
	if !d.Valid() {
		return ErrInvalidDice
	}
	s.startTurn(d)
	return nil
}

func (s *Session) canRoll() error {
	switch s.phase {
	case GameOver:
		return ErrGameOver
	case DiceAvailable:
		return ErrAlreadyRolled
	}
	return nil
}

func (s *Session) startTurn(d DiceRoll) {
	s.dice = NewTurnDice(d)
	s.phase = DiceAvailable
	log.Debug().Str("session", s.id).Stringer("color", s.turn).
		Ints("dice", d[:]).Bool("double", d.IsDouble()).Msg("dice-rolled")
}

// LegalMoves lists the moves available to the color to move.
func (s *Session) LegalMoves() []Move {
	if s.phase != DiceAvailable {
		return nil
	}
	return AllLegalMoves(&s.board, s.dice, s.turn)
}

// HasLegalMove reports whether the color to move can still move this turn.
func (s *Session) HasLegalMove() bool {
	return len(s.LegalMoves()) > 0
}

// LegalDestinationsFrom lists where the checker at from may go this turn.
func (s *Session) LegalDestinationsFrom(from Location) ([]Location, error) {
	if err := s.canMove(); err != nil {
		return nil, err
	}
	return LegalDestinationsFrom(&s.board, s.dice, s.turn, from)
}

func (s *Session) canMove() error {
	switch s.phase {
	case GameOver:
		return ErrGameOver
	case AwaitingRoll:
		return ErrDiceNotRolled
	}
	return nil
}

// ApplyMove performs m for the color to move and consumes its die. Either
// the whole move happens or, on error, nothing changes. When the move bears
// off the last checker the session ends with the mover as winner.
func (s *Session) ApplyMove(m Move) (MoveResult, error) {
	if err := s.canMove(); err != nil {
		return MoveResult{}, err
	}
	if !s.dice.Has(m.Die) {
		return MoveResult{}, &MoveError{Move: m, Color: s.turn, Err: ErrDieUnavailable}
	}

	next := s.board.Clone()
	hit, err := ApplyToBoard(&next, m, s.turn)
	if err != nil {
		return MoveResult{}, err
	}
	if next.Total(White) != CheckersPerSide || next.Total(Black) != CheckersPerSide {
		panic(fmt.Sprintf("engine: checker conservation violated by %s", m))
	}

	s.board = next
	if err := s.dice.Consume(m.Die); err != nil {
		panic("engine: die vanished between check and consume")
	}
	s.moves++

	res := MoveResult{
		Move:      m,
		Hit:       hit,
		Board:     s.board.Clone(),
		Remaining: s.dice.Remaining(),
	}
	if CheckWin(&s.board, s.turn) {
		s.phase = GameOver
		s.winner = s.turn
		res.Won = true
	}

	log.Debug().Str("session", s.id).Stringer("color", s.turn).Stringer("move", m).
		Int("die", m.Die).Bool("hit", hit).Bool("won", res.Won).Msg("move-applied")
	return res, nil
}

// EndTurn passes the turn to the opponent, discarding any unused dice.
func (s *Session) EndTurn() error {
	if s.phase == GameOver {
		return ErrGameOver
	}
	log.Debug().Str("session", s.id).Stringer("color", s.turn).
		Ints("unused", s.dice.Remaining()).Msg("turn-ended")
	s.dice = TurnDice{}
	s.turn = s.turn.Opponent()
	s.phase = AwaitingRoll
	s.turns++
	return nil
}

// Snapshot is a read-only view of a session for presentation layers.
type Snapshot struct {
	ID        string
	Turn      Color
	Phase     Phase
	Board     Board
	Roll      DiceRoll
	Remaining []int
	Winner    *Color
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		Turn:      s.turn,
		Phase:     s.phase,
		Board:     s.board.Clone(),
		Roll:      s.dice.Roll(),
		Remaining: s.dice.Remaining(),
	}
	if w, ok := s.Winner(); ok {
		snap.Winner = &w
	}
	return snap
}
