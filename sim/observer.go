package sim

// Message is the lifecycle notification an Observer receives.
type Message int

const (
	// Initialized is sent once by the run driver, after the kernel and the
	// observer chain are built and before the first tick.
	Initialized Message = iota
	// Tick fires once per completed tick, outside the kernel's mutex.
	Tick
	// Finished is sent once by the run driver after its tick loop ends
	// (tick limit, termination or viewer close). A panic in the tick loop
	// is not recovered, so it ends the process without Finished.
	Finished
)

// Observer receives simulation lifecycle notifications. Observers form a
// singly linked chain (Next); each forwards to its successor.
// Grounded on original_source/model/observer.hpp.
type Observer interface {
	Notify(msg Message, k *Kernel)
	// NotifyOnce is called on demand (not part of the Tick/Finished
	// cycle) for snapshot-style observers that write once per explicit
	// request rather than by sampling.
	NotifyOnce(k *Kernel)
	SetNext(o Observer)
	Next() Observer
}

// BaseObserver implements the linked-list forwarding boilerplate; embed
// it in concrete observers that only need to act on some messages.
type BaseObserver struct {
	next Observer
}

func (b *BaseObserver) SetNext(o Observer) { b.next = o }
func (b *BaseObserver) Next() Observer     { return b.next }

func (b *BaseObserver) forward(msg Message, k *Kernel) {
	if b.next != nil {
		b.next.Notify(msg, k)
	}
}

func (b *BaseObserver) forwardOnce(k *Kernel) {
	if b.next != nil {
		b.next.NotifyOnce(k)
	}
}

// Chain appends observers in order and returns the head, so callers can
// build the chain top to bottom in configuration order.
func Chain(observers ...Observer) Observer {
	for i := 0; i+1 < len(observers); i++ {
		observers[i].SetNext(observers[i+1])
	}
	if len(observers) == 0 {
		return nil
	}
	return observers[0]
}

// NotifyChain safely notifies a possibly-nil chain head.
func NotifyChain(head Observer, msg Message, k *Kernel) {
	if head != nil {
		head.Notify(msg, k)
	}
}
