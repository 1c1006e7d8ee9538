package external

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nardy/pkg/ai"
	"github.com/yourusername/nardy/pkg/engine"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func newTestConn() *connState {
	return NewServer(ai.DefaultWeights(), DefaultServerOptions()).newConnState()
}

func TestParseBoardLine(t *testing.T) {
	start := engine.StartingBoard()

	bl, err := ParseBoardLine("board::w")
	require.NoError(t, err)
	assert.Equal(t, start, bl.Board)
	assert.Equal(t, engine.White, bl.Turn)
	assert.False(t, bl.Dice.Rolled())

	bl, err = ParseBoardLine(start.PositionID() + ":b:66:66")
	require.NoError(t, err)
	assert.Equal(t, engine.Black, bl.Turn)
	assert.Equal(t, engine.DiceRoll{6, 6}, bl.Dice.Roll())
	assert.Equal(t, []int{6, 6}, bl.Dice.Remaining())
	assert.Equal(t, "board:"+start.PositionID()+":b:66:66", bl.String())

	bl, err = ParseBoardLine("board::white:31")
	require.NoError(t, err)
	assert.Equal(t, "board:"+start.PositionID()+":w:31", bl.String())
}

func TestParseBoardLineInvalid(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"board:", engine.ErrInvalidPosition},
		{"board::w:31:1:2", engine.ErrInvalidPosition},
		{"board::green", engine.ErrInvalidPosition},
		{"board:!!:w", engine.ErrInvalidPosition},
		{"board::w:71", engine.ErrInvalidDice},
		{"board::w:3", engine.ErrInvalidDice},
		{"board::w::3", engine.ErrInvalidDice},
		{"board::w:31:6", engine.ErrDieUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := ParseBoardLine(tt.line)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcessBasics(t *testing.T) {
	c := newTestConn()

	assert.Equal(t, Version+"\n", c.process("version"))
	assert.Equal(t, "Goodbye\n", c.process("QUIT"))
	assert.Contains(t, c.process("help"), "bestmove <board>")
	assert.Equal(t, "Error: unknown command 'dance'\n", c.process("dance"))

	assert.Equal(t, "difficulty set to random\n", c.process("set difficulty easy"))
	assert.Equal(t, ai.Random, c.difficulty)
	assert.Equal(t, "prompt set to false\n", c.process("set prompt off"))
	assert.True(t, strings.HasPrefix(c.process("set difficulty godlike"), "Error:"))
	assert.True(t, strings.HasPrefix(c.process("set color"), "Error:"))
}

func TestProcessPositions(t *testing.T) {
	c := newTestConn()

	assert.Equal(t, "10.000000\n", c.process("evaluation board::w"))
	assert.Equal(t, "1/4 1/6\n", c.process("legal board::w:35"))
	assert.Equal(t, "1/6\n", c.process("bestmove board::w:35"))
	assert.Equal(t, "1/6\n", c.process("board::w:35"))
	assert.Equal(t, "Error: DICE_NOT_ROLLED dice not rolled\n", c.process("legal board::w"))
	assert.True(t, strings.HasPrefix(c.process("evaluation"), "Error: INVALID_POSITION"))
}

func TestProcessPass(t *testing.T) {
	b := engine.EmptyBoard()
	b.Adjust(engine.White, engine.Point(1), 3)
	for p := 13; p <= 18; p++ {
		b.Adjust(engine.White, engine.Point(p), 2)
	}
	b.Adjust(engine.Black, engine.Bar, 1)
	b.Adjust(engine.Black, engine.Point(12), 14)
	line := "board:" + b.PositionID() + ":b:16"

	c := newTestConn()
	assert.Equal(t, "none\n", c.process("legal "+line))
	assert.Equal(t, "cannot move\n", c.process("bestmove "+line))
}

func TestProcessApply(t *testing.T) {
	c := newTestConn()

	after := engine.StartingBoard()
	after.Adjust(engine.White, engine.Point(1), -1)
	after.Adjust(engine.White, engine.Point(4), 1)
	first := "board:" + after.PositionID() + ":w:35:5"
	assert.Equal(t, first+"\n", c.process("apply board::w:35 1/4"))

	// the last die ends the turn
	after.Adjust(engine.White, engine.Point(4), -1)
	after.Adjust(engine.White, engine.Point(9), 1)
	assert.Equal(t, "board:"+after.PositionID()+":b\n", c.process("apply "+first+" 4/9"))

	assert.True(t, strings.HasPrefix(c.process("apply board::w:35 1/5"), "Error: DIE_VALUE_UNAVAILABLE"))
	assert.True(t, strings.HasPrefix(c.process("apply board::w:35 1/2/3"), "Error:"))
	assert.Equal(t, "Error: apply requires a board and a move\n", c.process("apply board::w:35"))
}

func TestProcessApplyWin(t *testing.T) {
	b := engine.EmptyBoard()
	b.Adjust(engine.White, engine.Point(24), 1)
	b.Adjust(engine.White, engine.Off, 14)
	b.Adjust(engine.Black, engine.Point(13), 15)

	resp := newTestConn().process("apply board:" + b.PositionID() + ":w:12 24/off")
	assert.True(t, strings.HasSuffix(resp, " win\n"), resp)
}

func TestServerSession(t *testing.T) {
	opts := DefaultServerOptions()
	opts.Host, opts.Port, opts.PromptEnabled = "127.0.0.1", 0, false
	s := NewServer(ai.DefaultWeights(), opts)
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Error(t, s.Start())

	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)

	send := func(line string) string {
		_, err := conn.Write([]byte(line + "\n"))
		require.NoError(t, err)
		resp, err := r.ReadString('\n')
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, Version+"\n", send("version"))
	assert.Equal(t, "1/6\n", send("bestmove board::w:35"))
	assert.Equal(t, "Goodbye\n", send("exit"))

	// the server closes the connection after exit
	_, err = r.ReadString('\n')
	assert.Error(t, err)
}

func TestServerStopClosesConnections(t *testing.T) {
	opts := DefaultServerOptions()
	opts.Host, opts.Port = "127.0.0.1", 0
	s := NewServer(ai.DefaultWeights(), opts)
	require.NoError(t, s.Start())

	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)

	prompt := make([]byte, 2)
	_, err = io.ReadFull(r, prompt)
	require.NoError(t, err)
	assert.Equal(t, "> ", string(prompt))

	require.NoError(t, s.Stop())
	_, err = r.ReadString('\n')
	assert.Error(t, err)
	assert.NoError(t, s.Stop())
}
