package api

import (
	"context"
	"image/png"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/marcusgo82/stridelab/pkg/footprint"
	"github.com/marcusgo82/stridelab/util/log"
)

// ListenAddr binds to loopback only; the mirror is for the local browser.
const ListenAddr = "127.0.0.1:49531"

// Server mirrors the current analysis state to a local browser page over
// REST and WebSocket.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader

	// WebSocket management
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex

	session *footprint.Session
}

// NewServer creates a mirror server over the given session.
func NewServer(session *footprint.Session) *Server {
	s := &Server{
		mux: http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]bool),
		session: session,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/report", s.enableCORS(s.handleReport))
	s.mux.HandleFunc("/overlay.png", s.enableCORS(s.handleOverlay))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Allow local pages to access localhost
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the server. This is blocking.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ListenAddr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// BroadcastReport sends the current report snapshot to all connected
// clients.
func (s *Server) BroadcastReport() {
	snapshot := s.session.Snapshot()

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client := range s.clients {
		if err := client.WriteJSON(snapshot); err != nil {
			log.Printf("Failed to broadcast to client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
}

// handleWebSocket upgrades the connection, registers the client, and
// pushes the current snapshot so the page renders immediately.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	// The initial snapshot goes out before the client is registered.
	// After registration only BroadcastReport writes the connection,
	// under clientsMu; the connection never has two writers.
	if err := conn.WriteJSON(s.session.Snapshot()); err != nil {
		log.Printf("Failed to send initial snapshot: %v", err)
		conn.Close()
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	// Reader loop, only to observe the close.
	go func() {
		defer func() {
			s.clientsMu.Lock()
			delete(s.clients, conn)
			s.clientsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleOverlay serves the source image with the point cloud composited
// on top.
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	img := s.session.CompositeImage()
	if img == nil {
		http.Error(w, "no image loaded", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		log.Printf("Failed to encode overlay: %v", err)
	}
}
