package telegram

import (
	"sync/atomic"
	"time"

	"multa-analyzer/api/internal/client"
)

const defaultSessionTTL = 24 * time.Hour

type chatSession struct {
	sess *client.Session
	seen atomic.Int64 // unix nanos of the last update of this chat
}

func (r *Router) clock() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Router) sessionTTL() time.Duration {
	if r.SessionTTL > 0 {
		return r.SessionTTL
	}
	return defaultSessionTTL
}

// session returns the chat's session, creating it on first use.
func (r *Router) session(chatID int64) *client.Session {
	now := r.clock()
	r.sweep(now)

	v, ok := r.sessions.Load(chatID)
	if !ok {
		cs := &chatSession{sess: client.NewSession(r.Analyzer, r.Log.With().Int64("chat_id", chatID).Logger())}
		v, _ = r.sessions.LoadOrStore(chatID, cs)
	}
	cs := v.(*chatSession)
	cs.seen.Store(now.UnixNano())
	return cs.sess
}

// sweep drops sessions idle for longer than the TTL. It walks the map at most
// once per quarter TTL; a session with an upload in flight is kept.
func (r *Router) sweep(now time.Time) {
	ttl := r.sessionTTL()
	last := r.lastSweep.Load()
	if now.UnixNano()-last < int64(ttl/4) || !r.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	r.sessions.Range(func(k, v any) bool {
		cs := v.(*chatSession)
		if now.UnixNano()-cs.seen.Load() > int64(ttl) && !cs.sess.State().Busy {
			r.sessions.Delete(k)
		}
		return true
	})
}
