package signin

import "sync"

// State is one immutable snapshot of the client's authentication state.
// At most one of Loading, Authenticated or a non-empty Err holds; all false
// and empty is idle.
type State struct {
	Authenticated bool
	Loading       bool
	Token         string
	Err           string
}

func (s State) Idle() bool {
	return !s.Authenticated && !s.Loading && s.Err == ""
}

func (s State) String() string {
	switch {
	case s.Loading:
		return "loading"
	case s.Authenticated:
		return "authenticated"
	case s.Err != "":
		return "error"
	default:
		return "idle"
	}
}

// Holder owns the current State. Every write replaces the whole snapshot and
// is published to subscribers; a slow subscriber only ever sees the latest
// snapshot.
type Holder struct {
	mu     sync.Mutex
	state  State
	gen    uint64
	subs   map[int]chan State
	nextID int
}

func NewHolder() *Holder {
	return &Holder{subs: make(map[int]chan State)}
}

func (h *Holder) Current() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// The Set methods write unconditionally and invalidate any in-flight attempt.

func (h *Holder) SetLoading() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.replace(State{Loading: true})
}

func (h *Holder) SetAuthenticated(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.replace(State{Authenticated: true, Token: token})
}

func (h *Holder) SetError(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.replace(errorState(message))
}

// Resume marks the session authenticated with a previously issued token.
// It refuses while an attempt is loading.
func (h *Holder) Resume(token string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state.Loading {
		return false
	}
	h.gen++
	h.replace(State{Authenticated: true, Token: token})
	return true
}

// Reset returns to idle and invalidates every in-flight attempt.
func (h *Holder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.replace(State{})
}

// Subscribe returns a channel that always holds the newest snapshot, starting
// with the current one. cancel closes the channel.
func (h *Holder) Subscribe() (<-chan State, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan State, 1)
	ch <- h.state
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Begin moves to Loading and returns a handle for finishing the attempt.
// It refuses while another attempt is loading.
func (h *Holder) Begin() (*Attempt, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state.Loading {
		return nil, false
	}
	h.gen++
	h.replace(State{Loading: true})
	return &Attempt{h: h, gen: h.gen}, true
}

// must hold h.mu
func (h *Holder) replace(s State) {
	h.state = s
	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func errorState(message string) State {
	if message == "" {
		message = "unknown error occurred"
	}
	return State{Err: message}
}

// Attempt finishes one Begin. Writes from an attempt that was superseded by
// Reset are dropped.
type Attempt struct {
	h   *Holder
	gen uint64
}

func (a *Attempt) Succeed(token string) bool {
	return a.finish(State{Authenticated: true, Token: token})
}

func (a *Attempt) Fail(message string) bool {
	return a.finish(errorState(message))
}

// Abandon returns the holder to idle without reporting an outcome.
func (a *Attempt) Abandon() bool {
	return a.finish(State{})
}

// Live reports whether the attempt can still write its outcome.
func (a *Attempt) Live() bool {
	a.h.mu.Lock()
	defer a.h.mu.Unlock()
	return a.h.gen == a.gen
}

func (a *Attempt) finish(s State) bool {
	a.h.mu.Lock()
	defer a.h.mu.Unlock()

	if a.h.gen != a.gen {
		return false
	}
	a.h.gen++
	a.h.replace(s)
	return true
}
