// nardy - long nardy rule engine and AI on the command line
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/yourusername/nardy/internal/logging"
	"github.com/yourusername/nardy/pkg/ai"
	"github.com/yourusername/nardy/pkg/engine"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "start":
		cmdStart(args)
	case "show":
		cmdShow(args)
	case "legal":
		cmdLegal(args)
	case "move":
		cmdMove(args)
	case "apply":
		cmdApply(args)
	case "eval":
		cmdEval(args)
	case "tutor":
		cmdTutor(args)
	case "play":
		cmdPlay(args)
	case "replay":
		cmdReplay(args)
	case "bearoff":
		cmdBearoff(args)
	case "selfplay":
		cmdSelfPlay(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`nardy - Long Nardy Engine

Usage: nardy <command> [options]

Commands:
  start     Print the starting position
  show      Draw a position
  legal     List legal single-die moves
  move      Let the AI choose a move
  apply     Apply a move and print the resulting position
  eval      Evaluate a position and rank the moves
  tutor     Grade a played move against the best one
  play      Play one AI-versus-AI game turn by turn
  replay    Check a game transcript and print the final position
  selfplay  Run a batch of AI-versus-AI games
  bearoff   Expected rolls to bear off for sides with all checkers home

Use "nardy <command> -h" for command-specific help.

Position ID Format:
  14 characters of base64, as printed by "nardy start".
  An empty position means the starting position.

Dice Format:
  -dice 3,5 (or 3-5) is the roll; -remaining 5 lists the dice still
  unused this turn when part of the roll has already been played.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	logLevel string
	logJSON  bool
	weights  string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.BoolVar(&c.logJSON, "log-json", false, "Log JSON lines instead of console output")
	fs.StringVar(&c.weights, "weights", "", "YAML file overriding the AI weights")
	return c
}

// setup configures logging and loads the weights.
func (c *commonFlags) setup() ai.Weights {
	if err := logging.Setup(c.logLevel, c.logJSON); err != nil {
		fatal("%v", err)
	}
	if c.weights == "" {
		return ai.DefaultWeights()
	}
	w, err := ai.LoadWeights(c.weights)
	if err != nil {
		fatal("%v", err)
	}
	return w
}

// positionFlags describe a position, the color to move and its dice.
type positionFlags struct {
	position  string
	turn      string
	dice      string
	remaining string
}

func addPositionFlags(fs *flag.FlagSet) *positionFlags {
	p := &positionFlags{}
	fs.StringVar(&p.position, "position", "", "Position ID (empty = starting position)")
	fs.StringVar(&p.position, "p", "", "Position ID (short form)")
	fs.StringVar(&p.turn, "turn", "white", "Color to move (white or black)")
	fs.StringVar(&p.dice, "dice", "", "Dice roll (e.g., 3,5 or 3-5)")
	fs.StringVar(&p.remaining, "remaining", "", "Unused dice of the roll (e.g., 5 or 4,4,4)")
	return p
}

func (p *positionFlags) parse() (engine.Board, engine.Color, engine.TurnDice) {
	board := engine.StartingBoard()
	if p.position != "" {
		b, err := engine.BoardFromPositionID(p.position)
		if err != nil {
			fatal("invalid position ID: %v", err)
		}
		board = b
	}

	turn, err := engine.ParseColor(p.turn)
	if err != nil {
		fatal("%v", err)
	}

	var dice engine.TurnDice
	if p.dice != "" {
		roll, err := parseDice(p.dice)
		if err != nil {
			fatal("%v", err)
		}
		dice = engine.NewTurnDice(roll)
		if p.remaining != "" {
			rem, err := parseRemaining(p.remaining)
			if err != nil {
				fatal("%v", err)
			}
			if dice, err = engine.TurnDiceFromRemaining(roll, rem); err != nil {
				fatal("%v", err)
			}
		}
	} else if p.remaining != "" {
		fatal("-remaining requires -dice")
	}
	return board, turn, dice
}

// mustRoll exits unless dice were given.
func mustRoll(dice engine.TurnDice) {
	if !dice.Rolled() {
		fatal("dice required (e.g., -dice 3,5)")
	}
}

func parseDice(diceStr string) (engine.DiceRoll, error) {
	parts := strings.Split(diceStr, ",")
	if len(parts) != 2 {
		parts = strings.Split(diceStr, "-")
	}
	if len(parts) != 2 {
		return engine.DiceRoll{}, fmt.Errorf("dice should be in format '3,5' or '3-5'")
	}

	d1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	roll := engine.DiceRoll{d1, d2}
	if err1 != nil || err2 != nil || !roll.Valid() {
		return engine.DiceRoll{}, fmt.Errorf("dice values must be 1-6")
	}
	return roll, nil
}

func parseRemaining(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("remaining dice should be a comma separated list: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal("%v", err)
	}
}

func cmdStart(args []string) {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	common := addCommonFlags(fs)
	fs.Parse(args)
	common.setup()

	board := engine.StartingBoard()
	fmt.Printf("Position ID: %s\n\n", board.PositionID())
	fmt.Print(renderBoard(&board))
}

func cmdShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	common := addCommonFlags(fs)
	pos := addPositionFlags(fs)
	fs.Parse(args)
	common.setup()

	board, turn, dice := pos.parse()
	fmt.Printf("Position ID: %s\n", board.PositionID())
	fmt.Printf("To move: %s", turn)
	if dice.Rolled() {
		fmt.Printf("  Dice: %s  Remaining: %v", dice.Roll(), dice.Remaining())
	}
	fmt.Print("\n\n")
	fmt.Print(renderBoard(&board))
}

func cmdLegal(args []string) {
	fs := flag.NewFlagSet("legal", flag.ExitOnError)
	common := addCommonFlags(fs)
	pos := addPositionFlags(fs)
	fromFlag := fs.String("from", "", "Only list moves from this location (e.g., 13 or bar)")
	fs.Parse(args)
	common.setup()

	board, turn, dice := pos.parse()
	mustRoll(dice)

	if *fromFlag != "" {
		from, err := engine.ParseLocation(*fromFlag)
		if err != nil {
			fatal("%v", err)
		}
		dests, err := engine.LegalDestinationsFrom(&board, dice, turn, from)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Legal destinations from %s for %s with %v:\n", from, turn, dice.Remaining())
		for _, d := range dests {
			fmt.Printf("  %s\n", d)
		}
		return
	}

	moves := engine.AllLegalMoves(&board, dice, turn)
	fmt.Printf("Legal moves for %s with %v: %d\n", turn, dice.Remaining(), len(moves))
	for _, m := range moves {
		fmt.Printf("  %-8s (die %d)\n", m, m.Die)
	}
}

func cmdMove(args []string) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	common := addCommonFlags(fs)
	pos := addPositionFlags(fs)
	difficulty := fs.String("difficulty", "lookahead", "AI level (random, heuristic, lookahead)")
	seed := fs.Int64("seed", 0, "Seed for random choices (0 = random)")
	fs.Parse(args)
	weights := common.setup()

	board, turn, dice := pos.parse()
	mustRoll(dice)

	d, err := ai.ParseDifficulty(*difficulty)
	if err != nil {
		fatal("%v", err)
	}
	opts := ai.DefaultOptions()
	opts.Weights = weights
	if *seed != 0 {
		opts.Source = engine.SeededRNG(*seed)
	}
	player, err := ai.New(d, opts)
	if err != nil {
		fatal("%v", err)
	}

	m, err := player.ChooseMove(board, dice, turn)
	if errors.Is(err, ai.ErrNoLegalMoves) {
		fmt.Printf("%s has no legal move with %v: pass\n", turn, dice.Remaining())
		return
	}
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%s (%s) plays %s with the %d\n", turn, player.Name(), m, m.Die)
}

func cmdApply(args []string) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	common := addCommonFlags(fs)
	pos := addPositionFlags(fs)
	moveFlag := fs.String("move", "", "Move to apply (e.g., 1/6, bar/3, 22/off)")
	fs.Parse(args)
	common.setup()

	board, turn, dice := pos.parse()
	mustRoll(dice)
	if *moveFlag == "" {
		fatal("move required (e.g., -move 1/6)")
	}

	s, err := engine.ResumeSession(board, turn, dice)
	if err != nil {
		fatal("%v", err)
	}
	m, err := engine.ParseMove(*moveFlag, turn, s.Dice())
	if err != nil {
		fatal("%v", err)
	}
	res, err := s.ApplyMove(m)
	if err != nil {
		fatal("%v (%s)", err, engine.ErrorCode(err))
	}

	fmt.Printf("Played: %s with the %d", res.Move, res.Move.Die)
	if res.Hit {
		fmt.Print(" (hit)")
	}
	fmt.Println()
	fmt.Printf("Position ID: %s\n", res.Board.PositionID())
	switch {
	case res.Won:
		fmt.Printf("%s wins\n", turn)
	case len(res.Remaining) > 0 && s.HasLegalMove():
		fmt.Printf("Remaining dice: %v\n", res.Remaining)
	default:
		fmt.Println("Turn over")
	}
	fmt.Println()
	fmt.Print(renderBoard(&res.Board))
}

func cmdEval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	common := addCommonFlags(fs)
	pos := addPositionFlags(fs)
	numMoves := fs.Int("n", 5, "Number of ranked moves to show")
	jsonOut := fs.Bool("json", false, "Print JSON")
	fs.Parse(args)
	weights := common.setup()

	board, turn, dice := pos.parse()
	eval := ai.Evaluate(&board, turn, weights.Position)

	var ranked []ai.ScoredMove
	if dice.Rolled() {
		ranked = ai.RankMoves(board, dice, turn, weights.Position)
	}

	if *jsonOut {
		printJSON(struct {
			Position string          `json:"position"`
			Turn     string          `json:"turn"`
			Score    float64         `json:"score"`
			Features ai.Features     `json:"features"`
			Moves    []ai.ScoredMove `json:"moves,omitempty"`
		}{board.PositionID(), turn.String(), eval.Score, eval.Features, ranked[:min(*numMoves, len(ranked))]})
		return
	}

	f := eval.Features
	fmt.Printf("Position: %s (%s to move)\n", board.PositionID(), turn)
	fmt.Printf("Score:    %+.3f\n\n", eval.Score)
	fmt.Println("Features:")
	fmt.Printf("  Borne off:      %d (opponent %d)\n", f.OwnOff, f.OppOff)
	fmt.Printf("  On bar:         %d (opponent %d)\n", f.OwnBar, f.OppBar)
	fmt.Printf("  Mean progress:  %.2f\n", f.MeanProgress)
	fmt.Printf("  Safe points:    %d\n", f.SafePoints)
	fmt.Printf("  Blots:          %d (opponent %d)\n", f.Blots, f.OppBlots)
	fmt.Printf("  Home checkers:  %d\n", f.HomeCheckers)
	fmt.Printf("  Prime pairs:    %d\n", f.PrimePairs)

	if !dice.Rolled() {
		return
	}
	fmt.Printf("\nBest moves with %v (%d legal):\n", dice.Remaining(), len(ranked))
	fmt.Println("  Rank  Move      Score    Hit")
	fmt.Println("  ----  --------  -------  ---")
	for i, sm := range ranked[:min(*numMoves, len(ranked))] {
		hit := ""
		if sm.Hit {
			hit = "*"
		}
		fmt.Printf("  %4d  %-8s  %+7.3f  %s\n", i+1, sm.Move, sm.Score, hit)
	}
}

func cmdTutor(args []string) {
	fs := flag.NewFlagSet("tutor", flag.ExitOnError)
	common := addCommonFlags(fs)
	pos := addPositionFlags(fs)
	moveFlag := fs.String("move", "", "Move that was played (e.g., 1/6)")
	fs.Parse(args)
	weights := common.setup()

	board, turn, dice := pos.parse()
	mustRoll(dice)
	if *moveFlag == "" {
		fatal("move required (e.g., -move 1/6)")
	}
	played, err := engine.ParseMove(*moveFlag, turn, dice)
	if err != nil {
		fatal("%v", err)
	}

	a, err := ai.AnalyzeMove(board, dice, turn, played, weights.Position)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Played: %s  Score: %+.3f\n", a.Move, a.Score)
	if a.IsForced {
		fmt.Println("Forced move")
		return
	}
	fmt.Printf("Best:   %s  Score: %+.3f\n", a.BestMove, a.BestScore)
	if a.Skill == ai.SkillNone {
		fmt.Println("Verdict: good move")
	} else {
		fmt.Printf("Verdict: %s %s (loss %.2f)\n", a.Skill, a.Skill.Abbr(), a.Loss)
	}
	fmt.Println("\nTop moves:")
	for i, sm := range a.TopMoves {
		fmt.Printf("  %d. %-8s %+7.3f\n", i+1, sm.Move, sm.Score)
	}
}

func cmdSelfPlay(args []string) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	common := addCommonFlags(fs)
	games := fs.Int("games", 100, "Number of games")
	workers := fs.Int("workers", 0, "Parallel workers (0 = all CPUs)")
	seed := fs.Int64("seed", 0, "Base seed (0 = random)")
	white := fs.String("white", "lookahead", "White AI level")
	black := fs.String("black", "heuristic", "Black AI level")
	maxTurns := fs.Int("max-turns", ai.DefaultMaxTurns, "Per-game turn cap")
	cacheSize := fs.Int("cache", ai.DefaultCacheSize, "Evaluation cache entries (0 = off)")
	jsonOut := fs.Bool("json", false, "Print JSON")
	quiet := fs.Bool("q", false, "Suppress progress output")
	fs.Parse(args)
	weights := common.setup()

	opts := ai.DefaultSelfPlayOptions()
	opts.Games = *games
	opts.Workers = *workers
	opts.Seed = *seed
	opts.MaxTurns = *maxTurns
	opts.Weights = weights
	opts.CacheSize = *cacheSize
	var err error
	if opts.White, err = ai.ParseDifficulty(*white); err != nil {
		fatal("%v", err)
	}
	if opts.Black, err = ai.ParseDifficulty(*black); err != nil {
		fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var progress ai.ProgressCallback
	if !*quiet && !*jsonOut {
		progress = func(p ai.SelfPlayProgress) {
			fmt.Fprintf(os.Stderr, "\rGames: %d/%d (%.0f%%)  White wins: %.1f%%",
				p.GamesCompleted, p.GamesTotal, p.Percent, 100*p.WhiteWinRate)
		}
	}

	res, err := ai.SelfPlay(ctx, opts, progress)
	if progress != nil {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		fatal("%v", err)
	}

	if *jsonOut {
		printJSON(res)
		return
	}
	fmt.Printf("%s (White) vs %s (Black), %d games, seed %d\n\n", opts.White, opts.Black, res.Games, res.Seed)
	fmt.Printf("  White wins:  %d (%.1f%% ± %.1f%%)\n", res.WhiteWins, 100*res.WhiteWinRate, 100*res.WhiteWinCI)
	fmt.Printf("  Black wins:  %d\n", res.BlackWins)
	if res.Unfinished > 0 {
		fmt.Printf("  Unfinished:  %d\n", res.Unfinished)
	}
	fmt.Printf("  Turns/game:  %.1f ± %.1f\n", res.MeanTurns, res.StdDevTurns)
	fmt.Printf("  Moves/game:  %.1f\n", res.MeanMoves)
	fmt.Printf("  Hits:        White %d, Black %d\n", res.WhiteHits, res.BlackHits)
	fmt.Printf("  Time:        %v\n", res.Elapsed)
}
