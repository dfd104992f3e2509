package model

import (
	"time"
)

// Status représente l'état d'un ticket
// Définition unique partagée entre le serveur et le client (pas de duplication)
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// Valid vérifie que le statut fait partie des valeurs autorisées
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority représente la priorité d'un ticket
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid vérifie que la priorité fait partie des valeurs autorisées
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Issue struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        Status    `json:"status"`
	Priority      Priority  `json:"priority"`
	Severity      *string   `json:"severity,omitempty"`
	ScreenshotURL *string   `json:"screenshotUrl,omitempty"`
	Creator       string    `json:"creator"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IssueStats compte les tickets par statut pour le filtre courant
// La clé JSON "_id" vient du contrat historique de l'API (agrégation Mongo)
type IssueStats struct {
	Status Status `json:"_id"`
	Count  int    `json:"count"`
}

type CreateIssueRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Severity    string   `json:"severity,omitempty"`
}

// UpdateIssueRequest utilise des pointeurs pour distinguer "absent" de "vide"
// (merge partiel : les champs absents conservent leur valeur)
type UpdateIssueRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Severity    *string   `json:"severity,omitempty"`
}

// IssueListResponse est le corps de réponse du listing
// Format attendu par le store côté client, ne pas envelopper dans APIResponse
type IssueListResponse struct {
	Issues      []Issue      `json:"issues"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Stats       []IssueStats `json:"stats"`
}
