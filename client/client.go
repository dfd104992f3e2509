// Package client est le SDK Go de l'API TrackPro: un client HTTP, le store
// d'issues utilisé par le dashboard et le contrôleur de filtres avec debounce.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	model "github.com/MassBabyGeek/TrackPro-backend/internal/models"
)

// ErrorMessageFallback est affiché quand le serveur ne fournit aucun message
const ErrorMessageFallback = "something went wrong"

// APIError est une erreur renvoyée par le serveur, avec son status HTTP
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound indique si l'erreur est un 404 du serveur
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// ListParams sont les paramètres de filtre/pagination du listing
// Le client n'envoie jamais limit: la taille de page est fixée côté serveur
type ListParams struct {
	Search   string
	Status   model.Status
	Priority model.Priority
	Page     int
}

// Client parle à l'API TrackPro
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken enregistre le token de session envoyé dans le header Authorization
func (c *Client) SetToken(token string) {
	c.token = token
}

// ListIssues exécute le listing filtré/paginé
func (c *Client) ListIssues(ctx context.Context, params ListParams) (*model.IssueListResponse, error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}
	if params.Priority != "" {
		query.Set("priority", string(params.Priority))
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}

	endpoint := c.baseURL + "/issues"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var resp model.IssueListResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateIssue crée un ticket et retourne l'enregistrement créé
func (c *Client) CreateIssue(ctx context.Context, req model.CreateIssueRequest) (*model.Issue, error) {
	var issue model.Issue
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/issues", req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue applique un merge partiel et retourne le ticket mis à jour
func (c *Client) UpdateIssue(ctx context.Context, id string, req model.UpdateIssueRequest) (*model.Issue, error) {
	var issue model.Issue
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"/issues/"+id, req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// DeleteIssue supprime un ticket définitivement
func (c *Client) DeleteIssue(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/issues/"+id, nil, nil)
}

// do exécute la requête et décode la réponse; les erreurs serveur sont
// remontées avec le message du corps {success:false, error:...} quand il existe
func (c *Client) do(ctx context.Context, method, endpoint string, body, dest interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeErrorMessage(resp *http.Response) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return ErrorMessageFallback
}
