// Package storeapi exposes the storefront core over HTTP: catalog read
// accessors, cart mutators and the checkout handoff. It owns no rendering.
package storeapi

// RegisterRoutes wires every storefront endpoint into the web server.
func RegisterRoutes() {
	registerCatalogRoutes()
	registerCartRoutes()
}
