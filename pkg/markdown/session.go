package markdown

import (
	"sync"

	"github.com/samsaffron/mdast/pkg/node"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSyntax sets the extensions used by Session.Parse.
func WithSyntax(opts Options) SessionOption {
	return func(s *Session) {
		s.opts = opts
	}
}

// WithText seeds the session buffer.
func WithText(text string) SessionOption {
	return func(s *Session) {
		s.buf = append(s.buf, text...)
	}
}

type listener struct {
	id uint64
	fn func()
}

// Session accumulates markdown that arrives in chunks, for example from a
// streaming model response, and notifies listeners on every change.
// All methods are safe for concurrent use. Listeners run on the goroutine
// that made the change, after the session lock is released.
type Session struct {
	mu        sync.Mutex
	buf       []byte
	version   uint64
	listeners []listener
	nextID    uint64
	opts      Options

	parseMu sync.Mutex
	parser  *Parser
}

// NewSession returns an empty session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{parser: NewParser()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds chunk to the end of the buffer.
func (s *Session) Append(chunk string) {
	s.mu.Lock()
	s.buf = append(s.buf, chunk...)
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Write implements io.Writer.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.buf = append(s.buf, p...)
	s.version++
	s.mu.Unlock()
	s.notify()
	return len(p), nil
}

// Clear empties the buffer.
func (s *Session) Clear() {
	s.mu.Lock()
	s.buf = s.buf[:0]
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Text returns everything appended since the last Clear.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.buf)
}

// Len returns the buffer size in bytes.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Version increases on every Append, Write and Clear.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// AddListener registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (s *Session) AddListener(fn func()) (remove func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Tree parses the current buffer.
func (s *Session) Tree() *node.Container {
	text := s.Text()
	s.parseMu.Lock()
	defer s.parseMu.Unlock()
	return s.parser.Tree(text, s.opts)
}

// Parse renders the current buffer as JSON.
func (s *Session) Parse() string {
	text := s.Text()
	s.parseMu.Lock()
	defer s.parseMu.Unlock()
	return s.parser.ParseWithOptions(text, s.opts)
}
