package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/yourusername/nardy/pkg/engine"
)

func TestPlayGameToCompletion(t *testing.T) {
	is := is.New(t)
	for seed := int64(1); seed <= 5; seed++ {
		rng := engine.SeededRNG(seed)
		rec, err := PlayGame(NewRandomPlayer(rng), NewRandomPlayer(rng), engine.NewSeededRoller(seed+100), 10000)
		is.NoErr(err)
		is.True(rec.Finished)
		is.True(rec.Winner.Valid())
		is.True(rec.Moves >= 15)
		is.True(rec.Turns > 0)
		is.True(rec.ID != "")
	}
}

func TestPlayGameTurnCap(t *testing.T) {
	is := is.New(t)
	rng := engine.SeededRNG(2)
	rec, err := PlayGame(NewRandomPlayer(rng), NewRandomPlayer(rng), engine.NewSeededRoller(3), 2)
	is.NoErr(err)
	is.True(!rec.Finished)
	is.Equal(rec.Turns, 2)
}

// stubbornPlayer always tries 1/2 with a one, rolled or not.
type stubbornPlayer struct{}

func (stubbornPlayer) Name() string { return "stubborn" }

func (stubbornPlayer) ChooseMove(engine.Board, engine.TurnDice, engine.Color) (engine.Move, error) {
	return engine.Move{From: engine.Point(1), To: engine.Point(2), Die: 1}, nil
}

func TestPlayGameRejectsIllegalChoice(t *testing.T) {
	is := is.New(t)
	roller := &engine.FixedRoller{Rolls: []engine.DiceRoll{{3, 5}}}
	_, err := PlayGame(stubbornPlayer{}, NewRandomPlayer(nil), roller, 0)
	is.True(errors.Is(err, engine.ErrDieUnavailable))
}

func TestSelfPlay(t *testing.T) {
	is := is.New(t)
	opts := SelfPlayOptions{
		Games:     8,
		Workers:   2,
		Seed:      42,
		White:     Lookahead,
		Black:     Random,
		Weights:   DefaultWeights(),
		CacheSize: 4096,
	}
	var calls []SelfPlayProgress
	res, err := SelfPlay(context.Background(), opts, func(p SelfPlayProgress) {
		calls = append(calls, p)
	})
	is.NoErr(err)
	is.Equal(res.Games, 8)
	is.Equal(res.WhiteWins+res.BlackWins+res.Unfinished, 8)
	is.Equal(res.Seed, int64(42))
	is.True(res.MeanTurns > 0)
	is.True(res.WhiteWinRate >= 0 && res.WhiteWinRate <= 1)
	is.Equal(len(calls), 8)
	is.Equal(calls[7].GamesCompleted, 8)
	is.Equal(calls[7].Percent, 100.0)

	again, err := SelfPlay(context.Background(), opts, nil)
	is.NoErr(err)
	is.Equal(again.WhiteWins, res.WhiteWins)
	is.Equal(again.MeanTurns, res.MeanTurns)
	is.Equal(again.WhiteHits, res.WhiteHits)
}

func TestSelfPlayCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := SelfPlay(ctx, SelfPlayOptions{Games: 4, Workers: 2, Seed: 1}, nil)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(res.Games, 0)
}
