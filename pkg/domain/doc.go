// Package domain contains the core types of the Concierge conversation
// engine: the durable conversation state, the append-only message
// transcript, action requests and their observations, and the handoff
// records that move control between handlers.
//
// The package is dependency-light on purpose. Everything here must
// survive a JSON round-trip through a StateStore unchanged.
package domain
