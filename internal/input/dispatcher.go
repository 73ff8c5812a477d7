package input

import (
	"sort"
	"sync"
)

// Listener handles one discrete press.
type Listener func()

// Dispatcher queues discrete presses from input goroutines and delivers them on the
// frame goroutine in Flush. A listener removed before delivery never fires, even for
// presses queued while it was registered.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[Action]map[uint64]Listener
	queue     []Action
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[Action]map[uint64]Listener)}
}

// Subscribe registers fn for action a. The returned function removes it; calling it
// more than once is harmless.
func (d *Dispatcher) Subscribe(a Action, fn Listener) (unsubscribe func()) {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	m := d.listeners[a]
	if m == nil {
		m = make(map[uint64]Listener)
		d.listeners[a] = m
	}
	m[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if m := d.listeners[a]; m != nil {
			delete(m, id)
		}
	}
}

// Listeners returns the number of listeners registered for a.
func (d *Dispatcher) Listeners(a Action) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[a])
}

// Press queues a press of a for the next Flush.
func (d *Dispatcher) Press(a Action) {
	d.mu.Lock()
	d.queue = append(d.queue, a)
	d.mu.Unlock()
}

// Flush delivers queued presses in arrival order, listeners in subscription order.
// Returns the number of listener invocations.
func (d *Dispatcher) Flush() int {
	d.mu.Lock()
	queue := d.queue
	d.queue = nil
	d.mu.Unlock()

	calls := 0
	for _, a := range queue {
		for _, id := range d.ids(a) {
			fn := d.lookup(a, id)
			if fn == nil {
				continue
			}
			fn()
			calls++
		}
	}
	return calls
}

func (d *Dispatcher) ids(a Action) []uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]uint64, 0, len(d.listeners[a]))
	for id := range d.listeners[a] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (d *Dispatcher) lookup(a Action, id uint64) Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listeners[a][id]
}
