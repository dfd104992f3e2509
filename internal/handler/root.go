package handler

import (
	"net/http"

	"github.com/MassBabyGeek/TrackPro-backend/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "TrackPro API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"auth": []map[string]string{
				{"method": "POST", "path": "/auth/register", "description": "Inscription utilisateur"},
				{"method": "POST", "path": "/auth/login", "description": "Connexion utilisateur"},
				{"method": "POST", "path": "/auth/logout", "description": "Déconnexion utilisateur"},
			},
			"issues": []map[string]string{
				{"method": "GET", "path": "/issues", "description": "Lister les tickets (params: search, status, priority, page, limit)"},
				{"method": "GET", "path": "/issues/{id}", "description": "Récupérer un ticket par ID"},
				{"method": "POST", "path": "/issues", "description": "Créer un ticket"},
				{"method": "PATCH", "path": "/issues/{id}", "description": "Mettre à jour un ticket (merge partiel)"},
				{"method": "DELETE", "path": "/issues/{id}", "description": "Supprimer un ticket"},
				{"method": "POST", "path": "/issues/{id}/screenshot", "description": "Upload capture d'écran du ticket"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check de l'API"},
			},
		},
		"documentation": map[string]string{
			"description": "API REST pour TrackPro - Suivi de tickets",
			"contact":     "support@pompeurpro.com",
		},
	}

	utils.Success(w, routes)
}
