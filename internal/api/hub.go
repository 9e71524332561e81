package api

import (
	"sync"

	"folio/internal/watch"
)

// hub fans data dir changes out to websocket subscribers. Slow subscribers drop changes rather
// than block the broadcaster.
type hub struct {
	mu   sync.Mutex
	subs map[chan watch.Change]struct{}
}

func newHub() *hub {
	return &hub{subs: map[chan watch.Change]struct{}{}}
}

func (h *hub) subscribe() (ch chan watch.Change, cancel func()) {
	ch = make(chan watch.Change, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *hub) broadcast(c watch.Change) {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
