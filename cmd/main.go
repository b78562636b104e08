package main

// @title           Task Tracker API
// @version         1.0
// @description     Multi-user task tracker with JWT authentication and role-gated admin endpoints.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

func main() {
	Execute()
}
