package domain

// Event bus topics. UI collaborators subscribe to these instead of the stores
// calling back into rendering code.
const (
	EventCatalogLoaded = "catalog:loaded"
	EventCatalogError  = "catalog:error"
	EventCartUpdated   = "cart:updated"
)
