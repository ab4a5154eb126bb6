package transport

import (
	"github.com/prasertsri/fleet-radar/internal/models"
)

// Publisher delivers a fleet snapshot to connected consumers. Delivery is
// fire-and-forget: implementations must not block the broadcast cycle on slow
// subscribers and must swallow per-subscriber delivery failures.
type Publisher interface {
	Publish(snapshot models.FleetSnapshot)
}

// Fanout forwards each snapshot to every registered publisher in order.
type Fanout struct {
	publishers []Publisher
}

// NewFanout creates a fanout over the given publishers.
func NewFanout(publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers}
}

// Publish delivers the snapshot to all registered publishers.
func (f *Fanout) Publish(snapshot models.FleetSnapshot) {
	for _, p := range f.publishers {
		p.Publish(snapshot)
	}
}
