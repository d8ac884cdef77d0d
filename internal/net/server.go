package net

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/gridsnake/engine/internal/app"
	"go.uber.org/zap"
)

// KeySink receives key presses typed by remote players.
type KeySink interface {
	Feed(keys ...app.Key)
}

// Server accepts TCP connections for remote play. Whatever a connection
// types is fed to the sink as keys; every frame written to the server is
// sent to every connection.
type Server struct {
	listener   net.Listener
	nextID     atomic.Uint64
	sink       KeySink
	outSize    int
	keysPerSec int
	log        *zap.Logger
	closeCh    chan struct{}

	mu       sync.Mutex
	sessions map[uint64]*Session
}

func NewServer(bindAddr string, outSize, keysPerSec int, sink KeySink, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		listener:   ln,
		sink:       sink,
		outSize:    outSize,
		keysPerSec: keysPerSec,
		log:        log,
		closeCh:    make(chan struct{}),
		sessions:   make(map[uint64]*Session),
	}
	return s, nil
}

// AcceptLoop runs in its own goroutine until Shutdown.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.outSize, s.keysPerSec, s.log)
		s.mu.Lock()
		s.sessions[id] = sess
		s.mu.Unlock()
		sess.Start(s.sink, s.remove)

		s.log.Info("player connected", zap.Uint64("session", id), zap.String("ip", sess.IP))
	}
}

func (s *Server) remove(id uint64) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	s.log.Info("player disconnected", zap.Uint64("session", id))
}

// Write sends one frame to every connected session. It never fails; a
// session that cannot keep up is dropped.
func (s *Server) Write(frame []byte) (int, error) {
	open := s.snapshot()
	if len(open) == 0 {
		return len(frame), nil
	}
	buf := make([]byte, len(frame))
	copy(buf, frame)
	for _, sess := range open {
		sess.Send(buf)
	}
	return len(frame), nil
}

// snapshot copies the session list so sessions can close without the lock held.
func (s *Server) snapshot() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	return open
}

// Sessions returns the number of connected sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown stops accepting connections and closes every session.
func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
	for _, sess := range s.snapshot() {
		sess.Close()
	}
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
