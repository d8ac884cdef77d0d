package net

import (
	"bufio"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gridsnake/engine/internal/app"
	"github.com/gridsnake/engine/internal/platform/headless"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// Session is one remote player. Reads and writes run in their own
// goroutines; Send is safe from any goroutine.
type Session struct {
	ID   uint64
	conn net.Conn
	IP   string

	OutQueue chan []byte // writer goroutine reads frames from here

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	onClose   func(uint64)

	// Per-second key limiter (readLoop goroutine only)
	keysPerSec int
	keyCount   int
	keyResetAt int64

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, outSize, keysPerSec int, log *zap.Logger) *Session {
	if outSize <= 0 {
		outSize = 8
	}
	return &Session{
		ID:         id,
		conn:       conn,
		IP:         conn.RemoteAddr().String(),
		OutQueue:   make(chan []byte, outSize),
		closeCh:    make(chan struct{}),
		keysPerSec: keysPerSec,
		log:        log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines. onClose runs once when
// the session ends.
func (s *Session) Start(sink KeySink, onClose func(uint64)) {
	s.onClose = onClose
	go s.readLoop(sink)
	go s.writeLoop()
}

// Send queues a frame. If the queue is full the client is too slow and the
// session is closed.
func (s *Session) Send(frame []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.OutQueue <- frame:
	default:
		s.log.Warn("output queue full, dropping slow client")
		s.Close()
	}
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
		if s.onClose != nil {
			s.onClose(s.ID)
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) readLoop(sink KeySink) {
	defer s.Close()

	r := bufio.NewReader(s.conn)
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read ended", zap.Error(err))
			}
			return
		}
		k := headless.KeyFor(ch)
		if k == app.KeyNone {
			continue
		}

		if s.keysPerSec > 0 {
			now := time.Now().Unix()
			if now != s.keyResetAt {
				s.keyCount = 0
				s.keyResetAt = now
			}
			s.keyCount++
			if s.keyCount > s.keysPerSec {
				s.log.Warn("key rate exceeded, disconnecting", zap.Int("kps", s.keyCount))
				return
			}
		}
		sink.Feed(k)
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case frame := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := s.conn.Write(frame); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write failed", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
