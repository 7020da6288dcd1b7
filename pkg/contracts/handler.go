// Package contracts holds the small interfaces the application wires
// handlers through.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is anything that mounts routes on the shared router. Each domain
// handler (stock, reservations, pricing, recaps, visiting hours) implements
// it and is passed to the application at startup.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
