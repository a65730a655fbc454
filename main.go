package main

import "teamdesk/internal/app"

// @title           TeamDesk API
// @version         1.0
// @description     Team, project and task collaboration backend.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @BasePath /
func main() {
	app.Run()
}
