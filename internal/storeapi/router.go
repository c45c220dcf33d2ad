package storeapi

// InitRouter registers every storefront route; the web server must be
// initialized first.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCartRoutes()
	registerOrderRoutes()
	registerCustomerRoutes()
}
