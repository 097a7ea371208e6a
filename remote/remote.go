// Package remote hosts an S16 emulator behind a websocket, so a
// browser page can assemble, run, and inspect programs without a
// local toolchain install.
package remote

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ezrec/s16/cpu"
	"github.com/ezrec/s16/emulator"
)

// StepLimit bounds each "run" command so a looping program cannot
// wedge the session.
const StepLimit = 1_000_000

type request struct {
	Type   string `json:"type"`
	Source string `json:"source,omitempty"` // assemble
	Image  string `json:"image,omitempty"`  // load; base64 little-endian words
	Addr   uint16 `json:"addr,omitempty"`   // load base address
	Count  int    `json:"count,omitempty"`  // step count (default 1)
}

type consoleMessage struct {
	Type string `json:"type"` // "console"
	Text string `json:"text"`
}

type errorMessage struct {
	Type string `json:"type"` // "error"
	Text string `json:"text"`
	Line int    `json:"line,omitempty"`
}

type stateMessage struct {
	Type  string    `json:"type"` // "state"
	Reg   [8]uint16 `json:"reg"`
	PC    uint16    `json:"pc"`
	SP    uint16    `json:"sp"`
	Flags uint16    `json:"flags"`
	State string    `json:"state"`
	Ticks int       `json:"ticks"`
}

// wsWriter serializes emulator console output into websocket console
// messages. The mutex guards against interleaving with state replies.
type wsWriter struct {
	mu   *sync.Mutex
	conn *websocket.Conn
}

func (w wsWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	err = w.conn.WriteJSON(consoleMessage{Type: "console", Text: string(p)})
	if err != nil {
		return
	}
	n = len(p)
	return
}

// session is one websocket client with its own machine.
type session struct {
	mu   sync.Mutex
	conn *websocket.Conn
	emu  *emulator.Emulator
}

func (s *session) send(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		log.Printf("remote: write: %v", err)
	}
}

func (s *session) sendError(err error) {
	msg := errorMessage{Type: "error", Text: err.Error()}
	var serr cpu.ErrSyntax
	if errors.As(err, &serr) {
		msg.Line = serr.LineNo
	}
	s.send(msg)
}

func (s *session) sendState() {
	m := s.emu.Machine
	s.send(stateMessage{
		Type:  "state",
		Reg:   m.Reg,
		PC:    m.PC,
		SP:    m.SP,
		Flags: m.Flags.Word(),
		State: m.State.String(),
		Ticks: m.Ticks,
	})
}

func (s *session) handle(req request) {
	switch req.Type {
	case "assemble":
		asm := &cpu.Assembler{}
		prog, err := asm.Parse(strings.NewReader(req.Source))
		if err != nil {
			s.sendError(err)
			return
		}
		s.emu.Program = prog
		if err = s.emu.LoadWords(req.Addr, prog.Words()); err != nil {
			s.sendError(err)
			return
		}
		s.sendState()

	case "load":
		raw, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			s.sendError(err)
			return
		}
		words, err := cpu.ReadImage(bytes.NewReader(raw))
		if err != nil {
			s.sendError(err)
			return
		}
		if err = s.emu.LoadWords(req.Addr, words); err != nil {
			s.sendError(err)
			return
		}
		s.sendState()

	case "run":
		if _, err := s.emu.Run(StepLimit); err != nil {
			s.sendError(err)
		}
		s.sendState()

	case "step":
		count := req.Count
		if count < 1 {
			count = 1
		}
		for i := 0; i < count && s.emu.State == cpu.Running; i++ {
			if err := s.emu.Step(); err != nil {
				s.sendError(err)
				break
			}
		}
		s.sendState()

	case "reset":
		s.emu.Reset()
		s.sendState()

	case "state":
		s.sendState()

	default:
		log.Printf("remote: unknown message type %q", req.Type)
	}
}

func serveSession(conn *websocket.Conn) {
	defer conn.Close()

	s := &session{conn: conn}
	s.emu = emulator.NewEmulator()
	s.emu.Console.Output = wsWriter{mu: &s.mu, conn: conn}

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			log.Printf("remote: read: %v", err)
			return
		}

		req := request{}
		if err = json.Unmarshal(messageBytes, &req); err != nil {
			log.Printf("remote: json: %v", err)
			return
		}

		s.handle(req)
	}
}

// Handler serves the browser page on / and the emulator websocket on
// /ws.
func Handler() http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println(err)
			return
		}
		go serveSession(conn)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(htmlPage))
	})

	return mux
}

// ListenAndServe hosts the browser page and its websocket endpoint.
func ListenAndServe(addr string) error {
	log.Printf("remote: connect at http://%v", addr)
	return http.ListenAndServe(addr, Handler())
}
