package eventemitter

import "sync"

// EventEmitter delivers messages of a single type to every subscribed
// callback. Each subscriber consumes its own queue on a dedicated
// goroutine, so a slow callback does not stall the emitter or the other
// subscribers beyond its queue capacity.
type EventEmitter[T any] struct {
	mutex       sync.Mutex
	subscribers []*subscriber[T]
	pending     sync.WaitGroup
}

func NewEventEmitter[T any]() *EventEmitter[T] {
	return &EventEmitter[T]{}
}

// Emit enqueues the message to every subscriber registered so far.
func (eventEmitter *EventEmitter[T]) Emit(message T) {
	eventEmitter.mutex.Lock()
	subscribers := eventEmitter.subscribers
	eventEmitter.mutex.Unlock()
	for _, subscriber := range subscribers {
		eventEmitter.pending.Add(1)
		subscriber.inputQueue <- message
	}
}

// Flush blocks until every message emitted so far has been handled by its
// subscriber callbacks. Emitters fired right before process exit must be
// flushed, or the delivery goroutines never get to run.
func (eventEmitter *EventEmitter[T]) Flush() {
	eventEmitter.pending.Wait()
}

// Subscribe registers a callback invoked once per emitted message, in
// emission order.
func (eventEmitter *EventEmitter[T]) Subscribe(callback func(T)) {
	eventEmitter.mutex.Lock()
	defer eventEmitter.mutex.Unlock()
	eventEmitter.subscribers = append(eventEmitter.subscribers, newSubscriber(callback, &eventEmitter.pending))
}

type subscriber[T any] struct {
	inputQueue chan T
	callback   func(T)
}

func newSubscriber[T any](callback func(T), pending *sync.WaitGroup) *subscriber[T] {
	instance := &subscriber[T]{
		inputQueue: make(chan T, 1),
		callback:   callback,
	}
	go func() {
		for message := range instance.inputQueue {
			instance.callback(message)
			pending.Done()
		}
	}()
	return instance
}
