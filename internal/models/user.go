package model

import (
	"time"
)

// DateFields contient les champs d'audit standard pour toutes les entités
type DateFields struct {
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type UserProfile struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinDate time.Time `json:"joinDate,omitempty"`
	DateFields
}
