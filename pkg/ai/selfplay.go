package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
	"lukechampine.com/frand"

	"github.com/yourusername/nardy/pkg/engine"
)

// DefaultMaxTurns caps a self-play game that neither side manages to finish.
const DefaultMaxTurns = 2000

// GameRecord summarizes one finished (or abandoned) game.
type GameRecord struct {
	ID       string       `json:"id"`
	Winner   engine.Color `json:"winner"`
	Finished bool         `json:"finished"` // false when the turn cap was hit
	Turns    int          `json:"turns"`
	Moves    int          `json:"moves"`
	Hits     [2]int       `json:"hits"`   // checkers hit, by the color that hit
	Passes   [2]int       `json:"passes"` // turns with no legal move at all
}

// PlayGame plays white against black from the starting position, White
// first, driving a Session the way any front-end would: roll, pick and apply
// moves until the dice are spent or nothing is legal, end the turn.
func PlayGame(white, black Strategy, roller engine.Roller, maxTurns int) (GameRecord, error) {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	players := [2]Strategy{engine.White: white, engine.Black: black}
	s := engine.NewSession(engine.White)
	rec := GameRecord{ID: s.ID()}

	for s.Phase() != engine.GameOver && s.TurnsPlayed() < maxTurns {
		if _, err := s.RollDice(roller); err != nil {
			return rec, err
		}
		color := s.Turn()
		moved := false
		for !s.Dice().Empty() {
			m, err := players[color].ChooseMove(s.Board(), s.Dice(), color)
			if errors.Is(err, ErrNoLegalMoves) {
				break
			}
			if err != nil {
				return rec, fmt.Errorf("%s player: %w", color, err)
			}
			res, err := s.ApplyMove(m)
			if err != nil {
				return rec, fmt.Errorf("%s player chose %s: %w", color, m, err)
			}
			moved = true
			if res.Hit {
				rec.Hits[color]++
			}
			if res.Won {
				break
			}
		}
		if !moved {
			rec.Passes[color]++
		}
		if s.Phase() == engine.GameOver {
			break
		}
		if err := s.EndTurn(); err != nil {
			return rec, err
		}
	}

	rec.Turns = s.TurnsPlayed()
	rec.Moves = s.MovesPlayed()
	rec.Winner, rec.Finished = s.Winner()
	if rec.Finished {
		// the winning turn is never ended
		rec.Turns++
	}
	return rec, nil
}

// SelfPlayOptions controls a self-play batch.
type SelfPlayOptions struct {
	Games     int        // number of games (default 100)
	Workers   int        // parallel workers (0 = GOMAXPROCS)
	Seed      int64      // base seed (0 = random)
	MaxTurns  int        // per-game turn cap (0 = DefaultMaxTurns)
	White     Difficulty // strategy for White
	Black     Difficulty // strategy for Black
	Weights   Weights
	CacheSize int // lookahead cache entries shared by all workers (0 = no cache)
}

// DefaultSelfPlayOptions returns a lookahead-versus-heuristic batch.
func DefaultSelfPlayOptions() SelfPlayOptions {
	return SelfPlayOptions{
		Games:   100,
		White:   Lookahead,
		Black:   Heuristic,
		Weights: DefaultWeights(),
	}
}

// SelfPlayProgress is reported after every completed game.
type SelfPlayProgress struct {
	GamesCompleted int     `json:"games_completed"`
	GamesTotal     int     `json:"games_total"`
	Percent        float64 `json:"percent"`
	WhiteWinRate   float64 `json:"white_win_rate"`
}

// ProgressCallback receives self-play progress. It is called from a single
// goroutine.
type ProgressCallback func(SelfPlayProgress)

// SelfPlayResult aggregates a self-play batch.
type SelfPlayResult struct {
	Games        int           `json:"games"`
	WhiteWins    int           `json:"white_wins"`
	BlackWins    int           `json:"black_wins"`
	Unfinished   int           `json:"unfinished"`
	MeanTurns    float64       `json:"mean_turns"`
	StdDevTurns  float64       `json:"stddev_turns"`
	MeanMoves    float64       `json:"mean_moves"`
	WhiteHits    int           `json:"white_hits"`
	BlackHits    int           `json:"black_hits"`
	WhiteWinRate float64       `json:"white_win_rate"` // over finished games
	WhiteWinCI   float64       `json:"white_win_ci"`   // 95% half-width
	Seed         int64         `json:"seed"`
	Elapsed      time.Duration `json:"elapsed"`
}

type workerResult struct {
	rec GameRecord
	err error
}

// SelfPlay plays opts.Games games across worker goroutines. Each worker
// owns its RNG, seeded from opts.Seed, so a fixed seed and worker count give
// the same games. On cancellation the games completed so far are returned
// together with the context error.
func SelfPlay(ctx context.Context, opts SelfPlayOptions, progress ProgressCallback) (*SelfPlayResult, error) {
	if opts.Games <= 0 {
		opts.Games = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Workers > opts.Games {
		opts.Workers = opts.Games
	}
	if opts.Seed == 0 {
		opts.Seed = int64(frand.Uint64n(math.MaxInt64)) + 1
	}
	var cache *EvalCache
	if opts.CacheSize > 0 {
		cache = NewEvalCache(opts.CacheSize)
	}

	start := time.Now()
	log.Info().Int("games", opts.Games).Int("workers", opts.Workers).Int64("seed", opts.Seed).
		Stringer("white", opts.White).Stringer("black", opts.Black).Msg("selfplay-started")

	gamesPerWorker := opts.Games / opts.Workers
	extraGames := opts.Games % opts.Workers

	results := make(chan workerResult, opts.Workers)
	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		n := gamesPerWorker
		if i < extraGames {
			n++
		}
		seed := opts.Seed + int64(i)*1000000
		wg.Add(1)
		go func() {
			defer wg.Done()
			selfPlayWorker(ctx, opts, cache, n, seed, results)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	res, err := aggregateGames(results, opts.Games, progress)
	res.Seed = opts.Seed
	res.Elapsed = time.Since(start)
	if err == nil {
		err = ctx.Err()
	}
	log.Info().Int("games", res.Games).Int("white_wins", res.WhiteWins).Int("black_wins", res.BlackWins).
		Float64("mean_turns", res.MeanTurns).Dur("elapsed", res.Elapsed).Err(err).Msg("selfplay-finished")
	return res, err
}

func selfPlayWorker(ctx context.Context, opts SelfPlayOptions, cache *EvalCache, games int, seed int64, out chan<- workerResult) {
	rng := engine.SeededRNG(seed)
	roller := engine.NewSeededRoller(seed + 1)
	sopts := Options{Weights: opts.Weights, Source: rng, Cache: cache}

	white, err := New(opts.White, sopts)
	if err != nil {
		out <- workerResult{err: err}
		return
	}
	black, err := New(opts.Black, sopts)
	if err != nil {
		out <- workerResult{err: err}
		return
	}

	for g := 0; g < games; g++ {
		if ctx.Err() != nil {
			return
		}
		rec, err := PlayGame(white, black, roller, opts.MaxTurns)
		out <- workerResult{rec: rec, err: err}
		if err != nil {
			return
		}
	}
}

func aggregateGames(results <-chan workerResult, total int, progress ProgressCallback) (*SelfPlayResult, error) {
	res := &SelfPlayResult{}
	var turns, moves []float64
	var firstErr error

	for wr := range results {
		if wr.err != nil {
			if firstErr == nil {
				firstErr = wr.err
			}
			continue
		}
		rec := wr.rec
		res.Games++
		switch {
		case !rec.Finished:
			res.Unfinished++
		case rec.Winner == engine.White:
			res.WhiteWins++
		default:
			res.BlackWins++
		}
		res.WhiteHits += rec.Hits[engine.White]
		res.BlackHits += rec.Hits[engine.Black]
		turns = append(turns, float64(rec.Turns))
		moves = append(moves, float64(rec.Moves))

		if progress != nil {
			progress(SelfPlayProgress{
				GamesCompleted: res.Games,
				GamesTotal:     total,
				Percent:        100 * float64(res.Games) / float64(total),
				WhiteWinRate:   winRate(res.WhiteWins, res.BlackWins),
			})
		}
	}

	if len(turns) > 0 {
		res.MeanTurns, res.StdDevTurns = stat.MeanStdDev(turns, nil)
		res.MeanMoves = stat.Mean(moves, nil)
		if math.IsNaN(res.StdDevTurns) {
			res.StdDevTurns = 0
		}
	}
	if finished := res.WhiteWins + res.BlackWins; finished > 0 {
		p := winRate(res.WhiteWins, res.BlackWins)
		res.WhiteWinRate = p
		// 95% confidence interval = 1.96 * stdErr
		res.WhiteWinCI = 1.96 * math.Sqrt(p*(1-p)/float64(finished))
	}
	return res, firstErr
}

func winRate(white, black int) float64 {
	if white+black == 0 {
		return 0
	}
	return float64(white) / float64(white+black)
}
