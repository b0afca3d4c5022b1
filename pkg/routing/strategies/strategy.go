package strategies

import (
	"nimbus-gw/nimbus/pkg/routing"
)

// ForName returns the strategy for a configured strategy name.
// Unknown names fall back to least-used, the default.
func ForName(name string) routing.Strategy {
	switch name {
	case "round-robin":
		return NewRoundRobinStrategy()
	default:
		return NewLeastUsedStrategy()
	}
}
