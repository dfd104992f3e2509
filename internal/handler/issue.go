package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/MassBabyGeek/TrackPro-backend/internal/database"
	"github.com/MassBabyGeek/TrackPro-backend/internal/middleware"
	model "github.com/MassBabyGeek/TrackPro-backend/internal/models"
	"github.com/MassBabyGeek/TrackPro-backend/internal/scanner"
	"github.com/MassBabyGeek/TrackPro-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// GetIssues récupère les tickets filtrés, paginés et triés, avec les stats par statut
// Le corps de réponse { issues, totalPages, currentPage, stats } est le contrat du store client
func GetIssues(w http.ResponseWriter, r *http.Request) {
	params := parseIssueListParams(r.URL.Query())

	ctx := context.Background()

	// Page courante
	listQuery, listArgs := buildIssueListQuery(params)
	rows, err := database.DB.Query(ctx, listQuery, listArgs...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch issues", err)
		return
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		issue, err := scanner.ScanIssue(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not read issue row", err)
			return
		}
		issues = append(issues, *issue)
	}
	if err := rows.Err(); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not read issue rows", err)
		return
	}

	// Nombre total de tickets correspondant au filtre (pagination exclue)
	var count int
	countQuery, countArgs := buildIssueCountQuery(params)
	if err := database.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count issues", err)
		return
	}

	// Stats par statut, sur le même filtre que la page
	// Trois requêtes indépendantes sans transaction: un écart transitoire
	// entre page et stats sous écritures concurrentes est accepté
	statsQuery, statsArgs := buildIssueStatsQuery(params)
	statsRows, err := database.DB.Query(ctx, statsQuery, statsArgs...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch issue stats", err)
		return
	}
	defer statsRows.Close()

	stats := []model.IssueStats{}
	for statsRows.Next() {
		var stat model.IssueStats
		if err := statsRows.Scan(&stat.Status, &stat.Count); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not read stats row", err)
			return
		}
		stats = append(stats, stat)
	}
	if err := statsRows.Err(); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not read stats rows", err)
		return
	}

	utils.JSON(w, http.StatusOK, model.IssueListResponse{
		Issues:      issues,
		TotalPages:  totalPages(count, params.Limit),
		CurrentPage: params.Page,
		Stats:       stats,
	})
}

// GetIssueById récupère un ticket par son ID
func GetIssueById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	ctx := context.Background()

	row := database.DB.QueryRow(ctx,
		"SELECT "+issueColumns+" FROM issues WHERE id = $1", id)

	issue, err := scanner.ScanIssue(row)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "issue not found", err)
		return
	}

	utils.JSON(w, http.StatusOK, issue)
}

// CreateIssue crée un nouveau ticket
func CreateIssue(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIssueRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	// Validation
	if req.Title == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "title is required")
		return
	}

	// Valeurs par défaut et contrôle des énumérations
	if req.Status == "" {
		req.Status = model.StatusOpen
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !req.Status.Valid() {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid status value")
		return
	}
	if !req.Priority.Valid() {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid priority value")
		return
	}

	// Le créateur est l'utilisateur authentifié, immuable ensuite
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required", err)
		return
	}

	ctx := context.Background()
	now := time.Now()

	row := database.DB.QueryRow(ctx, `
		INSERT INTO issues(id, title, description, status, priority, severity, creator, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING `+issueColumns,
		uuid.NewString(), req.Title, req.Description, req.Status, req.Priority,
		utils.StringToNullString(req.Severity), user.ID, now,
	)

	issue, err := scanner.ScanIssue(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create issue", err)
		return
	}

	utils.JSON(w, http.StatusOK, issue)
}

// UpdateIssue applique un merge partiel: les champs absents conservent leur valeur
// Pas de contrôle de concurrence optimiste, le dernier écrivain gagne
func UpdateIssue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var req model.UpdateIssueRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if req.Title != nil && *req.Title == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid status value")
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid priority value")
		return
	}

	ctx := context.Background()

	// Vérifier que le ticket existe avant de le modifier
	var existingID string
	if err := database.DB.QueryRow(ctx, `SELECT id FROM issues WHERE id=$1`, id).Scan(&existingID); err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "issue not found")
		return
	}

	// Construction dynamique de la requête UPDATE
	query := "UPDATE issues SET updated_at = NOW()"
	args := []interface{}{}
	argCount := 1

	if req.Title != nil {
		query += ", title = $" + strconv.Itoa(argCount)
		args = append(args, *req.Title)
		argCount++
	}
	if req.Description != nil {
		query += ", description = $" + strconv.Itoa(argCount)
		args = append(args, *req.Description)
		argCount++
	}
	if req.Status != nil {
		query += ", status = $" + strconv.Itoa(argCount)
		args = append(args, *req.Status)
		argCount++
	}
	if req.Priority != nil {
		query += ", priority = $" + strconv.Itoa(argCount)
		args = append(args, *req.Priority)
		argCount++
	}
	if req.Severity != nil {
		query += ", severity = $" + strconv.Itoa(argCount)
		args = append(args, utils.StringToNullString(*req.Severity))
		argCount++
	}

	query += " WHERE id = $" + strconv.Itoa(argCount)
	args = append(args, id)
	query += " RETURNING " + issueColumns

	row := database.DB.QueryRow(ctx, query, args...)
	issue, err := scanner.ScanIssue(row)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update issue", err)
		return
	}

	utils.JSON(w, http.StatusOK, issue)
}

// DeleteIssue supprime définitivement un ticket (pas de soft delete, pas d'undo)
func DeleteIssue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	ctx := context.Background()

	res, err := database.DB.Exec(ctx, "DELETE FROM issues WHERE id = $1", id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete issue", err)
		return
	}

	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "issue not found")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
