package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yourusername/nardy/pkg/engine"
	"github.com/yourusername/nardy/pkg/match"
)

// replayCode names a replay failure.
func replayCode(err error) string {
	switch {
	case errors.Is(err, match.ErrOutOfTurn):
		return "OUT_OF_TURN"
	case errors.Is(err, match.ErrResultMismatch):
		return "RESULT_MISMATCH"
	}
	return engine.ErrorCode(err)
}

func (h *Handlers) replay(req ReplayRequest) (*ReplayResponse, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, badRequest("INVALID_TRANSCRIPT", errors.New("transcript is empty"))
	}
	m, err := match.ImportMAT(strings.NewReader(req.Transcript))
	if err != nil {
		return nil, badRequest("INVALID_TRANSCRIPT", err)
	}

	resp := &ReplayResponse{White: m.White, Black: m.Black, Valid: true, Games: make([]ReplayedGame, 0, len(m.Games))}
	for _, g := range m.Games {
		r, err := g.Replay()
		out := ReplayedGame{Number: g.Number, Turns: r.Turns, Moves: r.Moves}
		if err != nil {
			out.Error, out.Code = err.Error(), replayCode(err)
			resp.Valid = false
		} else {
			bv := boardView(r.Board)
			out.Position, out.Board, out.Finished = r.Board.PositionID(), &bv, r.Finished
			if r.Finished {
				out.Winner = r.Winner.String()
			}
		}
		resp.Games = append(resp.Games, out)
	}
	return resp, nil
}

// Replay handles POST /api/replay
func (h *Handlers) Replay(w http.ResponseWriter, r *http.Request) {
	h.fast(w, r, func() {
		var req ReplayRequest
		if decode(w, r, &req) {
			resp, err := h.replay(req)
			writeResult(w, resp, err)
		}
	})
}
