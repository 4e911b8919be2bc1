package engine

import (
	"fmt"
	"sync"
)

// Controller runs every preparation engine concurrently and notifies the
// handler once all of them completed.
type Controller struct {
	engines          []ApplicationEngine
	handler          Handler
	preparationGroup sync.WaitGroup
}

func NewController(engines []ApplicationEngine, handler Handler) (controller *Controller) {
	return &Controller{
		engines: engines,
		handler: handler,
	}
}

func (controller *Controller) Initialize() {
	for engineIndex, engine := range controller.engines {
		if engine == nil {
			panic(fmt.Sprintf("Engine %d is nil", engineIndex))
		}
		controller.preparationGroup.Add(1)
		go engine.Initialize(&controller.preparationGroup)
	}

	controller.preparationGroup.Wait()
	controller.handler.NotifyPrepared()
}
