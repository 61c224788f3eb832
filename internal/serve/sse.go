package serve

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

const keepAliveInterval = 30 * time.Second

// reloadHub fans reload notices out to every connected browser over
// server-sent events.
type reloadHub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{subs: make(map[chan string]struct{})}
}

func (h *reloadHub) subscribe() (<-chan string, func()) {
	ch := make(chan string, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// broadcast drops the message for subscribers whose buffer is full and
// reports how many received it.
func (h *reloadHub) broadcast(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for ch := range h.subs {
		select {
		case ch <- msg:
			n++
		default:
		}
	}
	return n
}

func (h *reloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgs, cancel := h.subscribe()
	defer cancel()

	// 断线后浏览器 1 秒重连
	fmt.Fprint(w, "retry: 1000\ndata: connected\n\n")
	flusher.Flush()

	ping := time.NewTicker(keepAliveInterval)
	defer ping.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-msgs:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
