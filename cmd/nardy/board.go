package main

import (
	"fmt"
	"strings"

	"github.com/yourusername/nardy/pkg/engine"
)

// renderBoard draws the board as text. Points 13-24 run along the top and
// 12-1 along the bottom; each cell shows the owner and count, e.g. "W15".
func renderBoard(b *engine.Board) string {
	var sb strings.Builder
	row := func(points []int) {
		for i, p := range points {
			if i == 6 {
				sb.WriteString(" |")
			}
			fmt.Fprintf(&sb, " %3d", p)
		}
		sb.WriteString("\n")
		for i, p := range points {
			if i == 6 {
				sb.WriteString(" |")
			}
			fmt.Fprintf(&sb, " %3s", cell(b, engine.Point(p)))
		}
		sb.WriteString("\n")
	}

	top := make([]int, 0, 12)
	bottom := make([]int, 0, 12)
	for p := 13; p <= 24; p++ {
		top = append(top, p)
	}
	for p := 12; p >= 1; p-- {
		bottom = append(bottom, p)
	}

	row(top)
	sb.WriteString(strings.Repeat("-", 4*12+2) + "\n")
	row(bottom)
	fmt.Fprintf(&sb, "Bar: W%d B%d   Off: W%d B%d\n",
		b.CountAt(engine.White, engine.Bar), b.CountAt(engine.Black, engine.Bar),
		b.CountAt(engine.White, engine.Off), b.CountAt(engine.Black, engine.Off))
	return sb.String()
}

func cell(b *engine.Board, loc engine.Location) string {
	if n := b.CountAt(engine.White, loc); n > 0 {
		return fmt.Sprintf("W%d", n)
	}
	if n := b.CountAt(engine.Black, loc); n > 0 {
		return fmt.Sprintf("B%d", n)
	}
	return "."
}
