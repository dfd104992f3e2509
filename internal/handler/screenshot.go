package handler

import (
	"context"
	"net/http"

	"github.com/MassBabyGeek/TrackPro-backend/internal/config"
	"github.com/MassBabyGeek/TrackPro-backend/internal/database"
	"github.com/MassBabyGeek/TrackPro-backend/internal/scanner"
	"github.com/MassBabyGeek/TrackPro-backend/internal/services"
	"github.com/MassBabyGeek/TrackPro-backend/internal/utils"
	"github.com/gorilla/mux"
)

// UploadIssueScreenshot gère l'upload d'une capture d'écran pour un ticket
func UploadIssueScreenshot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	ctx := context.Background()

	// Vérifier que le ticket existe avant d'uploader quoi que ce soit
	var existingID string
	if err := database.DB.QueryRow(ctx, `SELECT id FROM issues WHERE id=$1`, id).Scan(&existingID); err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "issue not found")
		return
	}

	// Limiter la taille du fichier à 10MB
	r.ParseMultipartForm(10 << 20)

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "no file uploaded", err)
		return
	}
	defer file.Close()

	// Vérifier le type de fichier
	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/jpg" {
		utils.ErrorSimple(w, http.StatusBadRequest, "only JPEG and PNG images are allowed")
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load config", err)
		return
	}

	cld, err := services.NewCloudinaryService(cfg)
	if err != nil {
		utils.Error(w, http.StatusServiceUnavailable, "screenshot storage is not configured", err)
		return
	}

	screenshotURL, err := cld.UploadIssueScreenshot(ctx, file, id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not upload screenshot", err)
		return
	}

	row := database.DB.QueryRow(ctx,
		`UPDATE issues SET screenshot_url=$1, updated_at=NOW() WHERE id=$2 RETURNING `+issueColumns,
		screenshotURL, id,
	)

	issue, err := scanner.ScanIssue(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update issue", err)
		return
	}

	utils.JSON(w, http.StatusOK, issue)
}
