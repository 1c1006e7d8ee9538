package main

import (
	"flag"
	"fmt"

	"github.com/yourusername/nardy/internal/bearoff"
	"github.com/yourusername/nardy/pkg/engine"
)

func cmdBearoff(args []string) {
	fs := flag.NewFlagSet("bearoff", flag.ExitOnError)
	common := addCommonFlags(fs)
	pos := addPositionFlags(fs)
	checkers := fs.Int("checkers", 0, "Table size (0 = just large enough for the position)")
	fs.Parse(args)
	common.setup()

	board, _, _ := pos.parse()
	fmt.Printf("Position: %s\n\n", board.PositionID())

	colors := []engine.Color{engine.White, engine.Black}
	var homes []bearoff.Position
	var home []engine.Color
	size := *checkers
	for _, color := range colors {
		p, ok := bearoff.HomePosition(&board, color)
		if !ok {
			fmt.Printf("%-6s not all checkers home\n", color)
			continue
		}
		homes = append(homes, p)
		home = append(home, color)
		if *checkers == 0 {
			size = max(size, p.Checkers())
		}
	}
	if len(home) == 0 {
		return
	}

	db, err := bearoff.Generate(max(size, 1))
	if err != nil {
		fatal("%v", err)
	}
	for i, color := range home {
		e, err := db.Lookup(homes[i])
		if err != nil {
			fmt.Printf("%-6s %v\n", color, err)
			continue
		}
		fmt.Printf("%-6s %v  expected rolls %.3f ± %.3f\n", color, homes[i], e.Mean, e.StdDev)
		for n := 1; n < bearoff.MaxRolls && n <= int(e.Mean)+3; n++ {
			if e.Dist[n] > 0 {
				fmt.Printf("         %2d rolls: %6.2f%%\n", n, 100*e.Dist[n])
			}
		}
	}
}
