package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redpenkr/redpen/internal/quiz"
)

var errNoSession = errors.New("no valid session")

// playSession binds one client's play run: the session state machine,
// the annotated tokens of the active variant, and the wall-clock anchor
// that drives ticks. The machine itself is time-source-agnostic; this
// layer translates elapsed wall-clock seconds into Tick calls whenever
// the session is observed, so no per-session timer goroutine is needed.
type playSession struct {
	mu sync.Mutex

	game      *quiz.Session
	tokens    []quiz.Token
	stageID   string
	variantID string

	lastTick time.Time
	// holdTicks suspends the clock between a correct tap and the
	// explicit finish, while the client shows the explanation modal.
	holdTicks bool
	// recorded guards against persisting one attempt's result twice.
	recorded bool
}

// advance applies whole elapsed seconds as ticks. Outside playing (or
// while held) the anchor simply follows the clock, so paused time never
// turns into a burst of ticks on resume.
func (p *playSession) advance(now time.Time) {
	if p.game.Status != quiz.StatusPlaying || p.holdTicks {
		p.lastTick = now
		return
	}
	for now.Sub(p.lastTick) >= time.Second {
		p.game.Tick()
		p.lastTick = p.lastTick.Add(time.Second)
		if p.game.Status != quiz.StatusPlaying {
			p.lastTick = now
			return
		}
	}
}

// SessionRegistry owns all live play sessions, keyed by an opaque
// bearer token. Sessions are ephemeral: nothing here touches storage
// until an attempt reaches a terminal state.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*playSession
	now      func() time.Time
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*playSession),
		now:      time.Now,
	}
}

// Open creates a fresh session with default lives and returns its token.
func (r *SessionRegistry) Open() (string, *playSession) {
	token := newSessionToken()
	p := &playSession{
		game:     quiz.New(quiz.DefaultLives),
		lastTick: r.now(),
	}

	r.mu.Lock()
	r.sessions[token] = p
	r.mu.Unlock()
	return token, p
}

func (r *SessionRegistry) Get(token string) (*playSession, bool) {
	r.mu.RLock()
	p, ok := r.sessions[token]
	r.mu.RUnlock()
	return p, ok
}

// Now reports the registry clock. Tests swap it for a fake.
func (r *SessionRegistry) Now() time.Time {
	return r.now()
}

// newSessionToken returns a compact 32-hex-char bearer token.
func newSessionToken() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// sessionFromRequest resolves the Bearer token to its play session.
func sessionFromRequest(r *http.Request, reg *SessionRegistry) (*playSession, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return nil, errNoSession
	}
	p, ok := reg.Get(token)
	if !ok {
		return nil, errNoSession
	}
	return p, nil
}

// sessionToken extracts the raw bearer token without resolving it,
// for surfaces that key on the token itself (the event broker).
func sessionToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, _ := strings.CutPrefix(auth, "Bearer ")
	return token
}
