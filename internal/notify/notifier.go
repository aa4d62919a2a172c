// Package notify fans out state-change events to subscribers. Delivery is
// fire-and-forget: a full buffer or a failed write never propagates back to
// the operation that produced the event.
package notify

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event names emitted by the dispatch core.
const (
	EventQueueUpdated           = "queueUpdated"
	EventTicketReallocated      = "ticketReallocated"
	EventTicketsReallocated     = "ticketsReallocated"
	EventPayrollProcessed       = "payrollProcessed"
	EventPayrollDisputeResolved = "payrollDisputeResolved"
	EventTripRegistered         = "tripRegistered"
	EventTripCanceled           = "tripCanceled"
	EventTripCompleted          = "tripCompleted"
	EventTicketRegistered       = "ticketRegistered"
)

// Notifier is the sink the engines emit into.
type Notifier interface {
	Emit(event string, payload any)
}

// AsyncNotifier drains events on a background goroutine, logging each one and
// appending it to the events table for real-time subscribers to poll.
type AsyncNotifier struct {
	db      *sql.DB
	ch      chan envelope
	wg      sync.WaitGroup
	once    sync.Once
	stopped sync.Once

	// mu orders Emit against the channel close in Stop; closed makes a late
	// Emit a logged no-op instead of a send on a closed channel.
	mu     sync.RWMutex
	closed bool
}

type envelope struct {
	name    string
	payload any
	at      time.Time
}

func NewAsyncNotifier(db *sql.DB) *AsyncNotifier {
	return &AsyncNotifier{
		db: db,
		ch: make(chan envelope, 256),
	}
}

func (n *AsyncNotifier) Start() {
	n.once.Do(func() {
		n.wg.Add(1)
		go n.drain()
	})
}

func (n *AsyncNotifier) Stop() {
	n.stopped.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.ch)
		n.mu.Unlock()
		n.wg.Wait()
	})
}

// Emit never blocks; when the buffer is full, or the notifier has already been
// stopped, the event is dropped with a warning rather than stalling or
// panicking the caller.
func (n *AsyncNotifier) Emit(event string, payload any) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		log.Printf("[NOTIFY] stopped, dropped event=%s", event)
		return
	}
	select {
	case n.ch <- envelope{name: event, payload: payload, at: time.Now().UTC()}:
	default:
		log.Printf("[NOTIFY] buffer full, dropped event=%s", event)
	}
}

func (n *AsyncNotifier) drain() {
	defer n.wg.Done()
	for env := range n.ch {
		raw, err := json.Marshal(env.payload)
		if err != nil {
			raw = []byte("{}")
		}
		log.Printf("[NOTIFY] event=%s payload=%s", env.name, raw)

		if n.db == nil {
			continue
		}
		if _, err := n.db.Exec(
			`INSERT INTO events (name, payload, created_at) VALUES (?, ?, ?)`,
			env.name, raw, env.at,
		); err != nil {
			log.Printf("[NOTIFY] persist failed event=%s: %v", env.name, err)
		}
	}
}
