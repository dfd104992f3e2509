package scanner

import (
	"database/sql"

	model "github.com/MassBabyGeek/TrackPro-backend/internal/models"
	"github.com/MassBabyGeek/TrackPro-backend/internal/utils"
)

// ScanIssue scanne une ligne SQL vers une Issue
// Utilise les types sql.Null* et les convertit automatiquement
func ScanIssue(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Issue, error) {
	var issue model.Issue
	var severity, screenshotURL sql.NullString

	err := scanner.Scan(
		&issue.ID, &issue.Title, &issue.Description,
		&issue.Status, &issue.Priority, &severity, &screenshotURL,
		&issue.Creator, &issue.CreatedAt, &issue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Conversions
	issue.Severity = utils.NullStringToPointer(severity)
	issue.ScreenshotURL = utils.NullStringToPointer(screenshotURL)

	return &issue, nil
}

// ScanUserProfile scanne une ligne SQL vers un UserProfile
func ScanUserProfile(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.UserProfile, error) {
	var user model.UserProfile

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email,
		&user.JoinDate, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
