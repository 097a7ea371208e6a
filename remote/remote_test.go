package remote

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

type anyMessage struct {
	Type  string    `json:"type"`
	Text  string    `json:"text"`
	Line  int       `json:"line"`
	Reg   [8]uint16 `json:"reg"`
	PC    uint16    `json:"pc"`
	State string    `json:"state"`
}

func dial(t *testing.T) (conn *websocket.Conn, done func()) {
	t.Helper()

	srv := httptest.NewServer(Handler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatal(err)
	}

	done = func() {
		conn.Close()
		srv.Close()
	}
	return
}

// read skips console messages until the next typed message arrives,
// accumulating the console text.
func read(t *testing.T, conn *websocket.Conn, want string) (msg anyMessage, console string) {
	t.Helper()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		if err = json.Unmarshal(raw, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == "console" && want != "console" {
			console += msg.Text
			continue
		}
		if msg.Type != want {
			t.Fatalf("message type %q, want %q", msg.Type, want)
		}
		return
	}
}

func TestRemoteRun(t *testing.T) {
	assert := assert.New(t)

	conn, done := dial(t)
	defer done()

	source := strings.Join([]string{
		".equ SYS_PUTC 1",
		"  lui r1, 0",
		"  addi r1, SYS_PUTC",
		"  lui r2, 0",
		"  addi r2, 65  # 'A'",
		"  syscall",
		"  lui r3, 0",
		"  addi r3, 7",
		"  halt",
	}, "\n")

	err := conn.WriteJSON(request{Type: "assemble", Source: source})
	assert.NoError(err)

	state, _ := read(t, conn, "state")
	assert.Equal("running", state.State)
	assert.Equal(uint16(0), state.PC)

	assert.NoError(conn.WriteJSON(request{Type: "run"}))
	state, console := read(t, conn, "state")
	assert.Equal("halted", state.State)
	assert.Equal(uint16(7), state.Reg[3])
	assert.Equal("A", console)

	// reset rewinds without reassembling
	assert.NoError(conn.WriteJSON(request{Type: "reset"}))
	state, _ = read(t, conn, "state")
	assert.Equal("running", state.State)
	assert.Equal(uint16(0), state.Reg[3])
}

func TestRemoteStep(t *testing.T) {
	assert := assert.New(t)

	conn, done := dial(t)
	defer done()

	source := "lui r1, 0x12\nori r1, 0x34\nhalt\n"
	assert.NoError(conn.WriteJSON(request{Type: "assemble", Source: source}))
	read(t, conn, "state")

	assert.NoError(conn.WriteJSON(request{Type: "step", Count: 2}))
	state, _ := read(t, conn, "state")
	assert.Equal("running", state.State)
	assert.Equal(uint16(2), state.PC)
	assert.Equal(uint16(0x1234), state.Reg[1])
}

func TestRemoteAssembleError(t *testing.T) {
	assert := assert.New(t)

	conn, done := dial(t)
	defer done()

	assert.NoError(conn.WriteJSON(request{Type: "assemble", Source: "nop\nbogus r1\n"}))
	msg, _ := read(t, conn, "error")
	assert.Equal(2, msg.Line)
	assert.Contains(msg.Text, "BOGUS")
}
