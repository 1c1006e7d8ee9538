package engine

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// DiceRoll holds the two face values of a roll.
type DiceRoll [2]int

// IsDouble reports whether both dice show the same value.
func (d DiceRoll) IsDouble() bool {
	return d[0] == d[1]
}

// Valid reports whether both dice are in 1..6.
func (d DiceRoll) Valid() bool {
	return validDie(d[0]) && validDie(d[1])
}

// Units returns the move units the roll grants: four copies on a double,
// the two faces otherwise.
func (d DiceRoll) Units() []int {
	if d.IsDouble() {
		return []int{d[0], d[0], d[0], d[0]}
	}
	return []int{d[0], d[1]}
}

func (d DiceRoll) String() string {
	return fmt.Sprintf("%d-%d", d[0], d[1])
}

func validDie(v int) bool {
	return v >= 1 && v <= 6
}

// TurnDice is the dice state of the current turn: the roll, if any, and the
// multiset of move units not yet consumed. It is a value type; copies never
// share state.
type TurnDice struct {
	roll      DiceRoll
	rolled    bool
	remaining [4]int
	n         int
}

// NewTurnDice returns the dice state right after rolling d.
func NewTurnDice(d DiceRoll) TurnDice {
	td := TurnDice{roll: d, rolled: true}
	for _, v := range d.Units() {
		td.remaining[td.n] = v
		td.n++
	}
	return td
}

// TurnDiceFromRemaining rebuilds a partly used turn. remaining must be a
// sub-multiset of the units granted by d.
func TurnDiceFromRemaining(d DiceRoll, remaining []int) (TurnDice, error) {
	if !d.Valid() {
		return TurnDice{}, ErrInvalidDice
	}
	units := d.Units()
	for _, v := range remaining {
		idx := slices.Index(units, v)
		if idx < 0 {
			return TurnDice{}, fmt.Errorf("%w: %d not granted by %s", ErrDieUnavailable, v, d)
		}
		units = slices.Delete(units, idx, idx+1)
	}
	td := TurnDice{roll: d, rolled: true}
	for _, v := range remaining {
		td.remaining[td.n] = v
		td.n++
	}
	return td, nil
}

// Rolled reports whether dice have been rolled this turn.
func (t TurnDice) Rolled() bool {
	return t.rolled
}

// Roll returns the roll of this turn; the zero roll if not rolled.
func (t TurnDice) Roll() DiceRoll {
	return t.roll
}

// Remaining returns a copy of the unconsumed move units.
func (t TurnDice) Remaining() []int {
	return slices.Clone(t.remaining[:t.n])
}

// Len returns the number of unconsumed move units.
func (t TurnDice) Len() int {
	return t.n
}

// Empty reports whether no move units remain.
func (t TurnDice) Empty() bool {
	return t.n == 0
}

// Has reports whether die value v is still available.
func (t TurnDice) Has(v int) bool {
	return slices.Contains(t.remaining[:t.n], v)
}

// Distinct returns the distinct available die values in ascending order.
func (t TurnDice) Distinct() []int {
	vals := lo.Uniq(t.remaining[:t.n])
	slices.Sort(vals)
	return vals
}

// Consume removes one unit of value v.
func (t *TurnDice) Consume(v int) error {
	idx := slices.Index(t.remaining[:t.n], v)
	if idx < 0 {
		return ErrDieUnavailable
	}
	copy(t.remaining[idx:t.n], t.remaining[idx+1:t.n])
	t.n--
	t.remaining[t.n] = 0
	return nil
}

// Roller produces dice rolls.
type Roller interface {
	Roll() DiceRoll
}

// RandomRoller draws two independent uniform dice.
type RandomRoller struct {
	rng *frand.RNG // nil uses the global frand generator
}

// NewRandomRoller returns a roller backed by the process-wide CSPRNG.
func NewRandomRoller() *RandomRoller {
	return &RandomRoller{}
}

// NewSeededRoller returns a reproducible roller. It is not safe for
// concurrent use.
func NewSeededRoller(seed int64) *RandomRoller {
	return &RandomRoller{rng: SeededRNG(seed)}
}

// Roll implements Roller.
func (r *RandomRoller) Roll() DiceRoll {
	if r.rng == nil {
		return DiceRoll{frand.Intn(6) + 1, frand.Intn(6) + 1}
	}
	return DiceRoll{r.rng.Intn(6) + 1, r.rng.Intn(6) + 1}
}

// SeededRNG derives a deterministic frand generator from an integer seed.
func SeededRNG(seed int64) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	return frand.NewCustom(key[:], 1024, 12)
}

// FixedRoller replays a fixed sequence of rolls, cycling when exhausted.
type FixedRoller struct {
	Rolls []DiceRoll
	next  int
}

// Roll implements Roller.
func (r *FixedRoller) Roll() DiceRoll {
	d := r.Rolls[r.next%len(r.Rolls)]
	r.next++
	return d
}
