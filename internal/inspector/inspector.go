// Package inspector is a minimal read-only debug server: it streams
// CPU register and MMU region snapshots to connected websocket clients
// as JSON frames, the introspection surface a host attaches to without
// reaching into core internals directly.
package inspector

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sharplr/gbcore/internal/cpu"
	"github.com/sharplr/gbcore/internal/mmu"
	"github.com/sharplr/gbcore/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Frame is one JSON snapshot sent to every connected client.
type Frame struct {
	CPU cpu.Snapshot `json:"cpu"`
	// IO is a DumpRegion($FF00, 0x100) read: the I/O/HRAM/IE window,
	// the part of the memory map a debugger usually wants live.
	IO []byte `json:"io"`
}

// Server holds the set of connected clients and the CPU/MMU it reads
// snapshots from. There is no write path: clients are observers only.
type Server struct {
	cpu *cpu.CPU
	mmu *mmu.MMU
	log log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New returns a Server that reads snapshots from c and m.
func New(c *cpu.CPU, m *mmu.MMU) *Server {
	return &Server{
		cpu:     c,
		mmu:     m,
		log:     log.New(),
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and registers it as a client. It
// sends one snapshot immediately, then relies on Broadcast to push
// further frames — there's no per-client polling loop here, since
// there's nothing for the client to say back.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("inspector: upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	if err := conn.WriteJSON(s.snapshot()); err != nil {
		s.drop(conn)
		return
	}

	go s.readPump(conn)
}

// readPump exists only to notice the client disconnecting (gorilla's
// websocket requires something to keep reading, even when the protocol
// is otherwise one-way) and to clean up the client map when it does.
func (s *Server) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.drop(conn)
			return
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[conn] {
		delete(s.clients, conn)
		conn.Close()
	}
}

func (s *Server) snapshot() Frame {
	return Frame{
		CPU: s.cpu.Snapshot(),
		IO:  s.mmu.DumpRegion(0xFF00, 0x100),
	}
}

// Broadcast pushes a fresh snapshot to every connected client. A host
// driving the emulation loop calls this after however many Steps it
// considers one "frame" worth of progress.
func (s *Server) Broadcast() {
	frame := s.snapshot()
	payload, err := json.Marshal(frame)
	if err != nil {
		s.log.Errorf("inspector: marshal snapshot: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

// ListenAndServe starts the HTTP server on addr, serving every request
// as a websocket upgrade. It blocks until the server stops.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.ServeHTTP)
	s.log.Infof("inspector: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
