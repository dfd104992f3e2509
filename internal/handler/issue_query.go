package handler

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize taille de page par défaut du listing (le client ne l'envoie pas)
const DefaultPageSize = 10

const issueColumns = `id, title, description, status, priority, severity, screenshot_url, creator, created_at, updated_at`

// issueListParams reflète les query params du listing après application des défauts
type issueListParams struct {
	Search   string
	Status   string
	Priority string
	Page     int
	Limit    int
}

// parseIssueListParams applique les défauts plutôt que de rejeter les valeurs invalides
// (page < 1 ou illisible -> 1, limit <= 0 ou illisible -> 10)
func parseIssueListParams(query url.Values) issueListParams {
	params := issueListParams{
		Search:   query.Get("search"),
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Page:     1,
		Limit:    DefaultPageSize,
	}

	if page, err := strconv.Atoi(query.Get("page")); err == nil && page >= 1 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}

	return params
}

// escapeLike neutralise les métacaractères LIKE pour une recherche en sous-chaîne littérale
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// buildIssueFilter construit la clause WHERE commune au listing, au count et aux stats
// Les filtres absents n'ajoutent aucune contrainte; tout est combiné en AND
func buildIssueFilter(params issueListParams) (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if params.Search != "" {
		clause += " AND title ILIKE $" + strconv.Itoa(argCount)
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argCount++
	}

	if params.Status != "" {
		clause += " AND status = $" + strconv.Itoa(argCount)
		args = append(args, params.Status)
		argCount++
	}

	if params.Priority != "" {
		clause += " AND priority = $" + strconv.Itoa(argCount)
		args = append(args, params.Priority)
	}

	return clause, args
}

// buildIssueListQuery retourne la requête paginée, triée par date de création décroissante
// (tri imposé par le contrat, pas configurable)
func buildIssueListQuery(params issueListParams) (string, []interface{}) {
	where, args := buildIssueFilter(params)
	argCount := len(args) + 1

	query := "SELECT " + issueColumns + " FROM issues" + where +
		" ORDER BY created_at DESC" +
		" LIMIT $" + strconv.Itoa(argCount) +
		" OFFSET $" + strconv.Itoa(argCount+1)
	args = append(args, params.Limit, (params.Page-1)*params.Limit)

	return query, args
}

// buildIssueCountQuery compte les tickets du filtre courant, pagination exclue
func buildIssueCountQuery(params issueListParams) (string, []interface{}) {
	where, args := buildIssueFilter(params)
	return "SELECT COUNT(*) FROM issues" + where, args
}

// buildIssueStatsQuery agrège par statut sur le même filtre que le listing
// Résultat creux: les statuts sans ticket n'apparaissent pas
func buildIssueStatsQuery(params issueListParams) (string, []interface{}) {
	where, args := buildIssueFilter(params)
	return "SELECT status, COUNT(*) FROM issues" + where + " GROUP BY status", args
}

// totalPages calcule ceil(count/limit)
func totalPages(count, limit int) int {
	return (count + limit - 1) / limit
}
