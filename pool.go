package canopy

import (
	"sync"

	"github.com/canopylog/canopy/core"
)

// events pools the scratch LogEvent each log call is staged in, so the
// enabled fast path and the dispatch walk do not allocate per call. Set
// overwrites every field, so a recycled event carries no stale state.
var events = sync.Pool{
	New: func() any {
		return &core.LogEvent{}
	},
}

func getEvent() *core.LogEvent {
	return events.Get().(*core.LogEvent)
}

func putEvent(ev *core.LogEvent) {
	events.Put(ev)
}
