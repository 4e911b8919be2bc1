package engine

import "sync"

// ApplicationEngine is a launch preparation unit. Initialize must signal
// the wait group when its work is done, whether it succeeded or not; the
// outcome is reported through the engine's own accessors.
type ApplicationEngine interface {
	Initialize(waitGroup *sync.WaitGroup)
}

// Handler is notified once every engine completed its preparation.
type Handler interface {
	NotifyPrepared()
}
