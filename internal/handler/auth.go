package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MassBabyGeek/TrackPro-backend/internal/database"
	model "github.com/MassBabyGeek/TrackPro-backend/internal/models"
	"github.com/MassBabyGeek/TrackPro-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	ctx := context.Background()
	var user model.UserProfile
	var hashedPassword string

	err := database.DB.QueryRow(ctx,
		`SELECT id, name, email, join_date, created_at, updated_at, password_hash
		 FROM users WHERE email=$1`,
		req.Email,
	).Scan(&user.ID, &user.Name, &user.Email,
		&user.JoinDate, &user.CreatedAt, &user.UpdatedAt, &hashedPassword)

	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	ip, userAgent := utils.ExtractIPAndUserAgent(r)
	token, err := utils.CreateSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	token, err := utils.GetToken(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "missing token")
		return
	}

	if err := utils.InvalidateSession(context.Background(), token); err != nil {
		utils.Error(w, http.StatusNotFound, "session not found or already logged out", err)
		return
	}

	utils.Success(w, map[string]bool{"success": true})
}

func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not hash password", err)
		return
	}

	ctx := context.Background()
	now := time.Now()

	var user model.UserProfile
	err = database.DB.QueryRow(ctx,
		`INSERT INTO users(id, name, email, password_hash, join_date, created_at, updated_at)
		 VALUES($1, $2, $3, $4, $5, $5, $5)
		 RETURNING id, name, email, join_date, created_at, updated_at`,
		uuid.NewString(), req.Name, req.Email, string(hashed), now,
	).Scan(&user.ID, &user.Name, &user.Email, &user.JoinDate, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// 23505 = violation de contrainte unique (email déjà pris)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			utils.ErrorSimple(w, http.StatusConflict, "email already registered")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "could not create user", err)
		return
	}

	ip, userAgent := utils.ExtractIPAndUserAgent(r)
	token, err := utils.CreateSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
