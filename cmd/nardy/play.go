package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yourusername/nardy/pkg/ai"
	"github.com/yourusername/nardy/pkg/engine"
	"github.com/yourusername/nardy/pkg/match"
)

func cmdPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	common := addCommonFlags(fs)
	white := fs.String("white", "lookahead", "White AI level")
	black := fs.String("black", "heuristic", "Black AI level")
	seed := fs.Int64("seed", 0, "Seed for dice and random choices (0 = random)")
	maxTurns := fs.Int("max-turns", ai.DefaultMaxTurns, "Turn cap")
	showBoard := fs.Bool("board", false, "Draw the board after every turn")
	output := fs.String("o", "", "Write the game transcript to this file")
	fs.Parse(args)
	weights := common.setup()

	opts := ai.DefaultOptions()
	opts.Weights = weights
	roller := engine.Roller(engine.NewRandomRoller())
	if *seed != 0 {
		opts.Source = engine.SeededRNG(*seed)
		roller = engine.NewSeededRoller(*seed + 1)
	}
	var players [2]ai.Strategy
	for c, level := range [2]string{*white, *black} {
		d, err := ai.ParseDifficulty(level)
		if err != nil {
			fatal("%v", err)
		}
		if players[c], err = ai.New(d, opts); err != nil {
			fatal("%v", err)
		}
	}

	m := match.NewMatch(players[engine.White].Name(), players[engine.Black].Name())
	m.Date = time.Now().Format("2006-01-02")
	game := m.NewGame()

	s := engine.NewSession(engine.White)
	for s.TurnsPlayed() < *maxTurns {
		turn := s.Turn()
		roll, err := s.RollDice(roller)
		if err != nil {
			fatal("%v", err)
		}

		var played []engine.Move
		for !s.Dice().Empty() {
			mv, err := players[turn].ChooseMove(s.Board(), s.Dice(), turn)
			if errors.Is(err, ai.ErrNoLegalMoves) {
				break
			}
			if err != nil {
				fatal("%v", err)
			}
			res, err := s.ApplyMove(mv)
			if err != nil {
				fatal("%s chose %s: %v", players[turn].Name(), mv, err)
			}
			played = append(played, mv)
			if res.Won {
				break
			}
		}
		game.AddTurn(turn, roll, played)

		moves := engine.FormatMoves(played)
		if moves == "" {
			moves = "(no move)"
		}
		fmt.Printf("%4d. %-5s %s  %s\n", len(game.Turns), turn, roll, moves)

		if winner, ok := s.Winner(); ok {
			game.SetWinner(winner)
			fmt.Printf("\n%s (%s) wins after %d turns\n", winner, players[winner].Name(), len(game.Turns))
			b := s.Board()
			fmt.Print(renderBoard(&b))
			break
		}
		if err := s.EndTurn(); err != nil {
			fatal("%v", err)
		}
		if *showBoard {
			b := s.Board()
			fmt.Print(renderBoard(&b))
		}
	}
	if !game.Finished {
		fmt.Printf("\nNo winner after %d turns\n", *maxTurns)
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal("%v", err)
		}
		defer f.Close()
		if err := match.ExportMAT(f, m); err != nil {
			fatal("writing transcript: %v", err)
		}
		fmt.Printf("Transcript written to %s\n", *output)
	}
}

func cmdReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	common := addCommonFlags(fs)
	file := fs.String("f", "", "Transcript file")
	quiet := fs.Bool("q", false, "Do not draw the final positions")
	fs.Parse(args)
	common.setup()

	if *file == "" {
		fatal("transcript required (e.g., -f game.mat)")
	}
	f, err := os.Open(*file)
	if err != nil {
		fatal("%v", err)
	}
	defer f.Close()

	m, err := match.ImportMAT(f)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%s (White) vs %s (Black), %d game(s)\n", m.White, m.Black, len(m.Games))

	failed := false
	for _, g := range m.Games {
		r, err := g.Replay()
		if err != nil {
			fmt.Printf("\nGame %d: %v\n", g.Number, err)
			failed = true
			continue
		}
		result := "unfinished"
		if r.Finished {
			result = r.Winner.String() + " wins"
		}
		fmt.Printf("\nGame %d: %d turns, %d moves, %s\n", g.Number, r.Turns, r.Moves, result)
		fmt.Printf("Position ID: %s\n", r.Board.PositionID())
		if !*quiet {
			fmt.Print(renderBoard(&r.Board))
		}
	}
	if failed {
		os.Exit(1)
	}
}
