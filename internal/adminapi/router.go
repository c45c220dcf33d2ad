package adminapi

// InitRouter registers every back-office route; the web server must be
// initialized first.
func InitRouter() {
	registerLoginRoutes()
	registerProductRoutes()
	registerCollectionRoutes()
	registerCustomerRoutes()
	registerOrderRoutes()
	registerDashboardRoutes()
	registerSettingsRoutes()
}
