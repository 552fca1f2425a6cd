package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"auth-gateway/internal/server"
)

// RunServer starts the HTTP server with all routes configured
func (app *App) RunServer() (*server.Server, http.Handler) {
	router := mux.NewRouter()
	app.SetupRoutes(router)

	srv := server.New(router, app.Config.Port, "", "")

	return srv, router
}
