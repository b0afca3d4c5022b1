// Package routing selects which account serves each incoming request.
//
// The Selector filters configured accounts by health eligibility and the
// request's exclusion set, then delegates the pick to a pluggable
// Strategy. The default least-used strategy spreads load evenly and gives
// accounts returning from cooldown a preferential retry; a round-robin
// strategy is available as a configurable alternative.
//
// Selection statistics are tracked atomically and exposed on the admin
// surface.
package routing
