// Package external implements a line-based TCP protocol that lets other
// programs use the engine as a long nardy player.
//
// Protocol overview:
//   - Server listens on a TCP port
//   - Client connects and sends one command per line
//   - Commands include: legal, bestmove, apply, evaluation, set, version, exit
//   - Positions are sent as board lines (see BoardLine)
//   - Every command gets exactly one response line
package external

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/nardy/pkg/ai"
	"github.com/yourusername/nardy/pkg/engine"
)

// Version is reported by the version command.
const Version = "nardy external player protocol 1.0"

// Server implements the external player protocol server.
type Server struct {
	weights  ai.Weights
	cache    *ai.EvalCache
	options  ServerOptions
	listener net.Listener
	mu       sync.Mutex
	running  bool
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

// ServerOptions configures the external player server.
type ServerOptions struct {
	Host          string        // Host to bind to
	Port          int           // TCP port to listen on (0 = any free port)
	Difficulty    ai.Difficulty // Default AI level for new connections
	PromptEnabled bool          // Send "> " prompts after responses
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Host:          "localhost",
		Port:          1234,
		Difficulty:    ai.Lookahead,
		PromptEnabled: true,
	}
}

// NewServer creates a new external player server.
func NewServer(weights ai.Weights, opts ServerOptions) *Server {
	return &Server{
		weights: weights,
		cache:   ai.NewEvalCache(ai.DefaultCacheSize),
		options: opts,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.options.Host, s.options.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true
	log.Info().Str("addr", listener.Addr().String()).Msg("external-listening")

	go s.acceptLoop()
	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every open connection, then waits for the
// connection handlers to return.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	err := s.listener.Close()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			log.Warn().Err(err).Msg("external-accept-failed")
			continue
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	log.Debug().Str("remote", remote).Msg("external-connected")

	c := s.newConnState()
	reader := bufio.NewReader(conn)

	if c.prompt {
		conn.Write([]byte("> "))
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Str("remote", remote).Msg("external-read-failed")
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if _, err := conn.Write([]byte(c.process(line))); err != nil {
			return
		}

		cmd := strings.ToLower(strings.Fields(line)[0])
		if cmd == "exit" || cmd == "quit" {
			return
		}
		if c.prompt {
			conn.Write([]byte("> "))
		}
	}
}

// connState holds per-connection settings.
type connState struct {
	server     *Server
	difficulty ai.Difficulty
	prompt     bool
}

func (s *Server) newConnState() *connState {
	return &connState{
		server:     s,
		difficulty: s.options.Difficulty,
		prompt:     s.options.PromptEnabled,
	}
}

// errorLine formats an error response with its code.
func errorLine(err error) string {
	code := engine.ErrorCode(err)
	if errors.Is(err, ai.ErrNoLegalMoves) {
		code = "NO_LEGAL_MOVES"
	}
	return fmt.Sprintf("Error: %s %v\n", code, err)
}

// process handles one command and returns its response line.
func (c *connState) process(cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n"
	}

	switch command := strings.ToLower(parts[0]); command {
	case "version":
		return Version + "\n"

	case "help":
		return helpResponse

	case "exit", "quit":
		return "Goodbye\n"

	case "set":
		return c.handleSet(parts[1:])

	case "evaluation", "eval":
		return c.handleEvaluation(parts[1:])

	case "legal":
		return c.handleLegal(parts[1:])

	case "bestmove", "move":
		return c.handleBestMove(parts[1:])

	case "apply":
		return c.handleApply(parts[1:])

	default:
		if strings.HasPrefix(command, "board:") {
			return c.handleBestMove(parts)
		}
		return fmt.Sprintf("Error: unknown command '%s'\n", command)
	}
}

const helpResponse = `Available commands: version | help | set difficulty <random|heuristic|lookahead> | set prompt <on|off> | evaluation <board> | legal <board> | bestmove <board> | apply <board> <move> | exit
`

func (c *connState) handleSet(args []string) string {
	if len(args) < 2 {
		return "Error: set requires option and value\n"
	}

	option := strings.ToLower(args[0])
	value := strings.ToLower(args[1])

	switch option {
	case "difficulty", "level":
		d, err := ai.ParseDifficulty(value)
		if err != nil {
			return fmt.Sprintf("Error: %v\n", err)
		}
		c.difficulty = d
		return fmt.Sprintf("difficulty set to %s\n", d)

	case "prompt":
		c.prompt = value == "on" || value == "true" || value == "1"
		return fmt.Sprintf("prompt set to %v\n", c.prompt)

	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", option)
	}
}

// boardArg parses the first argument as a board line.
func boardArg(args []string) (*BoardLine, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no board specified", engine.ErrInvalidPosition)
	}
	return ParseBoardLine(args[0])
}

// handleEvaluation returns the static score for the side to move.
func (c *connState) handleEvaluation(args []string) string {
	bl, err := boardArg(args)
	if err != nil {
		return errorLine(err)
	}
	eval := ai.Evaluate(&bl.Board, bl.Turn, c.server.weights.Position)
	return fmt.Sprintf("%.6f\n", eval.Score)
}

func (c *connState) handleLegal(args []string) string {
	bl, err := boardArg(args)
	if err != nil {
		return errorLine(err)
	}
	if !bl.Dice.Rolled() {
		return errorLine(engine.ErrDiceNotRolled)
	}
	moves := engine.AllLegalMoves(&bl.Board, bl.Dice, bl.Turn)
	if len(moves) == 0 {
		return "none\n"
	}
	return engine.FormatMoves(moves) + "\n"
}

// handleBestMove returns the AI's single-die move.
func (c *connState) handleBestMove(args []string) string {
	bl, err := boardArg(args)
	if err != nil {
		return errorLine(err)
	}
	if !bl.Dice.Rolled() {
		return errorLine(engine.ErrDiceNotRolled)
	}

	opts := ai.DefaultOptions()
	opts.Weights = c.server.weights
	opts.Cache = c.server.cache
	player, err := ai.New(c.difficulty, opts)
	if err != nil {
		return errorLine(err)
	}

	m, err := player.ChooseMove(bl.Board, bl.Dice, bl.Turn)
	if errors.Is(err, ai.ErrNoLegalMoves) {
		return "cannot move\n"
	}
	if err != nil {
		return errorLine(err)
	}
	return m.String() + "\n"
}

// handleApply plays a move and returns the next board line. When the turn
// is over the line names the opponent with no dice; a winning move appends
// "win".
func (c *connState) handleApply(args []string) string {
	bl, err := boardArg(args)
	if err != nil {
		return errorLine(err)
	}
	if len(args) < 2 {
		return "Error: apply requires a board and a move\n"
	}

	s, err := engine.ResumeSession(bl.Board, bl.Turn, bl.Dice)
	if err != nil {
		return errorLine(err)
	}
	m, err := engine.ParseMove(args[1], bl.Turn, s.Dice())
	if err != nil {
		return errorLine(err)
	}
	res, err := s.ApplyMove(m)
	if err != nil {
		return errorLine(err)
	}

	next := &BoardLine{Board: res.Board, Turn: bl.Turn, Dice: s.Dice()}
	switch {
	case res.Won:
		return next.String() + " win\n"
	case !s.HasLegalMove():
		next.Turn, next.Dice = bl.Turn.Opponent(), engine.TurnDice{}
	}
	return next.String() + "\n"
}
