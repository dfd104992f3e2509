package api

import (
	"net/http"

	"github.com/MassBabyGeek/TrackPro-backend/internal/handler"
	"github.com/MassBabyGeek/TrackPro-backend/internal/middleware"
	"github.com/MassBabyGeek/TrackPro-backend/internal/utils"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
)

func SetupRouter() http.Handler {
	r := mux.NewRouter()

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)
	authenticatedRoutes.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/register", handler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)

	// Issues - toutes les routes exigent un appelant authentifié
	// Pas de scoping par propriétaire: tout utilisateur authentifié peut tout modifier
	authenticatedRoutes.HandleFunc("/issues", handler.GetIssues).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/issues", handler.CreateIssue).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/issues/{id}", handler.GetIssueById).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/issues/{id}", handler.UpdateIssue).Methods(http.MethodPatch)
	authenticatedRoutes.HandleFunc("/issues/{id}", handler.DeleteIssue).Methods(http.MethodDelete)
	authenticatedRoutes.HandleFunc("/issues/{id}/screenshot", handler.UploadIssueScreenshot).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
