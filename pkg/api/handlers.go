package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/yourusername/nardy/pkg/ai"
	"github.com/yourusername/nardy/pkg/engine"
)

// Request limits.
const (
	DefaultNumMoves = 5
	MaxSelfPlay     = 10000
)

// Handlers holds the HTTP handlers and the AI configuration they share.
type Handlers struct {
	weights ai.Weights
	cache   *ai.EvalCache
	version string
	pool    *WorkerPool
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(weights ai.Weights, version string) *Handlers {
	return NewHandlersWithPool(weights, version, nil)
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(weights ai.Weights, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		weights: weights,
		cache:   ai.NewEvalCache(ai.DefaultCacheSize),
		version: version,
		pool:    pool,
	}
}

// requestError is malformed input, as opposed to a rule violation.
type requestError struct {
	code string
	err  error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(code string, err error) error {
	return &requestError{code: code, err: err}
}

// errorStatus maps an error to its HTTP status and error code. Rule
// violations are 422, malformed input 400.
func errorStatus(err error) (int, string) {
	var re *requestError
	if errors.As(err, &re) {
		return http.StatusBadRequest, re.code
	}
	if errors.Is(err, ai.ErrNoLegalMoves) {
		return http.StatusUnprocessableEntity, "NO_LEGAL_MOVES"
	}
	switch code := engine.ErrorCode(err); code {
	case "INVALID_POSITION", "INVALID_DICE":
		return http.StatusBadRequest, code
	case "INTERNAL":
		return http.StatusInternalServerError, code
	default:
		return http.StatusUnprocessableEntity, code
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// writeResult writes v, or the error mapped to its status.
func writeResult(w http.ResponseWriter, v interface{}, err error) {
	if err != nil {
		status, code := errorStatus(err)
		writeError(w, status, err.Error(), code)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// decode reads a JSON body, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return false
	}
	return true
}

// fast runs fn in a fast pool slot when a pool is configured.
func (h *Handlers) fast(w http.ResponseWriter, r *http.Request, fn func()) {
	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseFast()
	}
	fn()
}

// position is a decoded PositionRequest.
type position struct {
	board engine.Board
	turn  engine.Color
	dice  engine.TurnDice
}

func parsePosition(req PositionRequest) (position, error) {
	p := position{board: engine.StartingBoard(), turn: engine.White}
	if req.Position != "" {
		b, err := engine.BoardFromPositionID(req.Position)
		if err != nil {
			return p, err
		}
		p.board = b
	}
	if req.Turn != "" {
		c, err := engine.ParseColor(req.Turn)
		if err != nil {
			return p, badRequest("INVALID_TURN", err)
		}
		p.turn = c
	}
	if req.Dice == [2]int{} {
		if len(req.Remaining) > 0 {
			return p, badRequest("INVALID_DICE", errors.New("remaining dice given without a roll"))
		}
		return p, nil
	}
	roll := engine.DiceRoll(req.Dice)
	if !roll.Valid() {
		return p, engine.ErrInvalidDice
	}
	p.dice = engine.NewTurnDice(roll)
	if req.Remaining != nil {
		d, err := engine.TurnDiceFromRemaining(roll, req.Remaining)
		if err != nil {
			return p, badRequest("INVALID_DICE", err)
		}
		p.dice = d
	}
	return p, nil
}

func (p position) requireDice() error {
	if !p.dice.Rolled() {
		return engine.ErrDiceNotRolled
	}
	return nil
}

func parseMove(s string, p position) (engine.Move, error) {
	m, err := engine.ParseMove(s, p.turn, p.dice)
	if err != nil && engine.ErrorCode(err) == "INTERNAL" {
		return m, badRequest("INVALID_MOVE", err)
	}
	return m, err
}

func parseDifficulty(s string, def ai.Difficulty) (ai.Difficulty, error) {
	if s == "" {
		return def, nil
	}
	d, err := ai.ParseDifficulty(s)
	if err != nil {
		return def, badRequest("INVALID_DIFFICULTY", err)
	}
	return d, nil
}

// ============================================================================
// Operations, shared by the HTTP and WebSocket front-ends
// ============================================================================

func (h *Handlers) legal(req LegalRequest) (*LegalResponse, error) {
	p, err := parsePosition(req.PositionRequest)
	if err != nil {
		return nil, err
	}
	if err := p.requireDice(); err != nil {
		return nil, err
	}
	resp := &LegalResponse{
		Position:  p.board.PositionID(),
		Turn:      p.turn.String(),
		Remaining: p.dice.Remaining(),
	}
	moves := engine.AllLegalMoves(&p.board, p.dice, p.turn)
	if req.From != "" {
		from, err := engine.ParseLocation(req.From)
		if err != nil {
			return nil, badRequest("INVALID_LOCATION", err)
		}
		dests, err := engine.LegalDestinationsFrom(&p.board, p.dice, p.turn, from)
		if err != nil {
			return nil, err
		}
		resp.Destinations = lo.Map(dests, func(l engine.Location, _ int) string { return l.String() })
		moves = lo.Filter(moves, func(m engine.Move, _ int) bool { return m.From == from })
	}
	resp.Moves = moveViews(moves)
	return resp, nil
}

func (h *Handlers) chooseMove(req MoveRequest) (*ChosenMoveResponse, error) {
	p, err := parsePosition(req.PositionRequest)
	if err != nil {
		return nil, err
	}
	if err := p.requireDice(); err != nil {
		return nil, err
	}
	d, err := parseDifficulty(req.Difficulty, ai.Lookahead)
	if err != nil {
		return nil, err
	}
	strategy, err := ai.New(d, ai.Options{Weights: h.weights, Cache: h.cache})
	if err != nil {
		return nil, err
	}
	resp := &ChosenMoveResponse{
		Strategy: strategy.Name(),
		NumLegal: len(engine.AllLegalMoves(&p.board, p.dice, p.turn)),
	}
	m, err := strategy.ChooseMove(p.board, p.dice, p.turn)
	if errors.Is(err, ai.ErrNoLegalMoves) {
		resp.Pass = true
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	mv := moveView(m)
	resp.Move = &mv
	return resp, nil
}

func (h *Handlers) apply(req ApplyRequest) (*ApplyResponse, error) {
	p, err := parsePosition(req.PositionRequest)
	if err != nil {
		return nil, err
	}
	s, err := engine.ResumeSession(p.board, p.turn, p.dice)
	if err != nil {
		return nil, err
	}
	m, err := parseMove(req.Move, p)
	if err != nil {
		return nil, err
	}
	res, err := s.ApplyMove(m)
	if err != nil {
		return nil, err
	}
	return &ApplyResponse{
		Position:  res.Board.PositionID(),
		Move:      moveView(res.Move),
		Hit:       res.Hit,
		Won:       res.Won,
		Remaining: res.Remaining,
		TurnOver:  res.Won || !s.HasLegalMove(),
		Board:     boardView(res.Board),
	}, nil
}

func (h *Handlers) evaluate(req EvaluateRequest) (*EvaluateResponse, error) {
	p, err := parsePosition(req.PositionRequest)
	if err != nil {
		return nil, err
	}
	ev := ai.Evaluate(&p.board, p.turn, h.weights.Position)
	resp := &EvaluateResponse{
		Position: p.board.PositionID(),
		Turn:     p.turn.String(),
		Score:    ev.Score,
		Features: ev.Features,
	}
	if p.dice.Rolled() {
		ranked := ai.NewLookaheadPlayer(h.weights.Position, h.cache).Rank(p.board, p.dice, p.turn)
		resp.NumLegal = len(ranked)
		n := req.NumMoves
		if n <= 0 {
			n = DefaultNumMoves
		}
		resp.Moves = rankedMoves(ranked[:min(n, len(ranked))])
	}
	return resp, nil
}

func (h *Handlers) tutor(req TutorRequest) (*TutorResponse, error) {
	p, err := parsePosition(req.PositionRequest)
	if err != nil {
		return nil, err
	}
	if err := p.requireDice(); err != nil {
		return nil, err
	}
	m, err := parseMove(req.Move, p)
	if err != nil {
		return nil, err
	}
	a, err := ai.AnalyzeMove(p.board, p.dice, p.turn, m, h.weights.Position)
	if err != nil {
		return nil, err
	}
	resp := &TutorResponse{
		Skill:     a.Skill.String(),
		SkillAbbr: a.Skill.Abbr(),
		Loss:      a.Loss,
		Played:    moveView(a.Move),
		BestMove:  moveView(a.BestMove),
		Score:     a.Score,
		BestScore: a.BestScore,
		IsForced:  a.IsForced,
		TopMoves:  rankedMoves(a.TopMoves),
	}
	if a.Skill != ai.SkillNone {
		resp.Suggestion = fmt.Sprintf("%s was better by %.1f", a.BestMove, a.Loss)
	}
	return resp, nil
}

func (h *Handlers) selfPlayOptions(req SelfPlayRequest) (ai.SelfPlayOptions, error) {
	opts := ai.DefaultSelfPlayOptions()
	opts.Weights = h.weights
	opts.Seed = req.Seed
	opts.Workers = req.Workers
	opts.MaxTurns = req.MaxTurns
	opts.CacheSize = ai.DefaultCacheSize
	if req.Games > 0 {
		opts.Games = req.Games
	}
	if opts.Games > MaxSelfPlay {
		return opts, badRequest("TOO_MANY_GAMES", fmt.Errorf("at most %d games per request", MaxSelfPlay))
	}
	var err error
	if opts.White, err = parseDifficulty(req.White, opts.White); err != nil {
		return opts, err
	}
	if opts.Black, err = parseDifficulty(req.Black, opts.Black); err != nil {
		return opts, err
	}
	return opts, nil
}

// ============================================================================
// HTTP handlers
// ============================================================================

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   true,
	}

	// Include pool stats if available
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	if h.cache != nil {
		lookups, hits, _ := h.cache.Stats()
		resp.Cache = &CacheInfo{Size: h.cache.Size(), Lookups: lookups, Hits: hits, HitRate: h.cache.HitRate()}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Start handles GET /api/start
func (h *Handlers) Start(w http.ResponseWriter, r *http.Request) {
	b := engine.StartingBoard()
	writeJSON(w, http.StatusOK, StartResponse{
		Position: b.PositionID(),
		Turn:     engine.White.String(),
		Board:    boardView(b),
	})
}

// Legal handles POST /api/legal
func (h *Handlers) Legal(w http.ResponseWriter, r *http.Request) {
	h.fast(w, r, func() {
		var req LegalRequest
		if decode(w, r, &req) {
			resp, err := h.legal(req)
			writeResult(w, resp, err)
		}
	})
}

// Move handles POST /api/move
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	h.fast(w, r, func() {
		var req MoveRequest
		if decode(w, r, &req) {
			resp, err := h.chooseMove(req)
			writeResult(w, resp, err)
		}
	})
}

// Apply handles POST /api/apply
func (h *Handlers) Apply(w http.ResponseWriter, r *http.Request) {
	h.fast(w, r, func() {
		var req ApplyRequest
		if decode(w, r, &req) {
			resp, err := h.apply(req)
			writeResult(w, resp, err)
		}
	})
}

// Evaluate handles POST /api/evaluate
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	h.fast(w, r, func() {
		var req EvaluateRequest
		if decode(w, r, &req) {
			resp, err := h.evaluate(req)
			writeResult(w, resp, err)
		}
	})
}

// Tutor handles POST /api/tutor
func (h *Handlers) Tutor(w http.ResponseWriter, r *http.Request) {
	h.fast(w, r, func() {
		var req TutorRequest
		if decode(w, r, &req) {
			resp, err := h.tutor(req)
			writeResult(w, resp, err)
		}
	})
}

// SelfPlay handles POST /api/selfplay
func (h *Handlers) SelfPlay(w http.ResponseWriter, r *http.Request) {
	// Acquire slow worker slot if pool is configured
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req SelfPlayRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := h.selfPlayOptions(req)
	if err != nil {
		writeResult(w, nil, err)
		return
	}
	result, err := ai.SelfPlay(r.Context(), opts, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "self-play failed: "+err.Error(), "SELFPLAY_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
