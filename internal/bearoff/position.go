package bearoff

// NumPoints is the number of home points a bear-off position covers.
const NumPoints = 6

// combination[n][r] = C(n, r) for n < 40, r <= NumPoints.
var combination [40][NumPoints + 1]int

func init() {
	for n := range combination {
		combination[n][0] = 1
		for r := 1; r <= NumPoints && r <= n; r++ {
			combination[n][r] = combination[n-1][r-1]
			if r < n {
				combination[n][r] += combination[n-1][r]
			}
		}
	}
}

// Combination returns C(n, r), or 0 outside the table.
func Combination(n, r int) int {
	if n < 0 || r < 0 || n >= len(combination) || r > NumPoints {
		return 0
	}
	return combination[n][r]
}

// NumPositions is the number of positions with at most maxCheckers checkers
// on the home points, including the empty (finished) position.
func NumPositions(maxCheckers int) int {
	return Combination(maxCheckers+NumPoints, NumPoints)
}

// Position holds checker counts on the home points. Index i is the point
// i+1 pips away from Off.
type Position [NumPoints]uint8

// Checkers returns the number of checkers in p.
func (p Position) Checkers() int {
	n := 0
	for _, c := range p {
		n += int(c)
	}
	return n
}

// Pips returns the total distance of p's checkers from Off.
func (p Position) Pips() int {
	n := 0
	for i, c := range p {
		n += (i + 1) * int(c)
	}
	return n
}

// Index ranks p among the bear-off positions. Checkers and point
// separators are laid out in slots and the index is the combinadic rank of
// the separator slots, so positions with at most n checkers take the
// indices below NumPositions(n) whatever the table size.
func Index(p Position) int {
	id, slot := 0, 0
	for i, c := range p {
		slot += int(c)
		id += Combination(slot, i+1)
		slot++
	}
	return id
}

// FromIndex is the inverse of Index.
func FromIndex(id, maxCheckers int) Position {
	var slots [NumPoints]int
	hi := maxCheckers + NumPoints - 1
	for r := NumPoints; r >= 1; r-- {
		s := hi
		for Combination(s, r) > id {
			s--
		}
		slots[r-1] = s
		id -= Combination(s, r)
		hi = s - 1
	}

	var p Position
	prev := -1
	for i, s := range slots {
		p[i] = uint8(s - prev - 1)
		prev = s
	}
	return p
}
