package client

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	model "github.com/MassBabyGeek/TrackPro-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend implémente en mémoire la sémantique de référence du listing:
// filtre (sous-chaîne insensible à la casse sur le titre, statut et priorité
// exacts), tri created_at décroissant, pagination, stats creuses par statut
// sur l'ensemble filtré
type fakeBackend struct {
	mu        sync.Mutex
	issues    []model.Issue
	nextID    int
	clock     time.Time
	listCalls int
	lastList  url.Values
	failList  bool
	// gate bloque les listings dont le paramètre search correspond à la clé,
	// jusqu'à fermeture du canal (pour simuler une réponse en retard)
	gate map[string]chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		gate:  map[string]chan struct{}{},
	}
}

func (f *fakeBackend) addIssue(title string, status model.Status, priority model.Priority) model.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addIssueLocked(title, "", status, priority)
}

func (f *fakeBackend) addIssueLocked(title, description string, status model.Status, priority model.Priority) model.Issue {
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	issue := model.Issue{
		ID:          "issue-" + strconv.Itoa(f.nextID),
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		Creator:     "user-1",
		CreatedAt:   f.clock,
		UpdatedAt:   f.clock,
	}
	f.issues = append(f.issues, issue)
	return issue
}

func (f *fakeBackend) matching(query url.Values) []model.Issue {
	search := strings.ToLower(query.Get("search"))
	status := query.Get("status")
	priority := query.Get("priority")

	matched := []model.Issue{}
	for _, issue := range f.issues {
		if search != "" && !strings.Contains(strings.ToLower(issue.Title), search) {
			continue
		}
		if status != "" && string(issue.Status) != status {
			continue
		}
		if priority != "" && string(issue.Priority) != priority {
			continue
		}
		matched = append(matched, issue)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": "missing authorization token"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/issues":
		f.handleList(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/issues":
		f.handleCreate(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/issues/"):
		f.handleUpdate(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/issues/"):
		f.handleDelete(w, r)
	default:
		http.Error(w, "route not found", http.StatusNotFound)
	}
}

func (f *fakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	f.mu.Lock()
	gate := f.gate[query.Get("search")]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	f.listCalls++
	f.lastList = query
	if f.failList {
		f.mu.Unlock()
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "storage exploded"})
		return
	}

	page := 1
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p >= 1 {
		page = p
	}
	limit := 10
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		limit = l
	}

	matched := f.matching(query)

	start := (page - 1) * limit
	end := start + limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	counts := map[model.Status]int{}
	for _, issue := range matched {
		counts[issue.Status]++
	}
	stats := []model.IssueStats{}
	for _, status := range []model.Status{model.StatusOpen, model.StatusInProgress, model.StatusResolved, model.StatusClosed} {
		if counts[status] > 0 {
			stats = append(stats, model.IssueStats{Status: status, Count: counts[status]})
		}
	}

	resp := model.IssueListResponse{
		Issues:      matched[start:end],
		TotalPages:  int(math.Ceil(float64(len(matched)) / float64(limit))),
		CurrentPage: page,
		Stats:       stats,
	}
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "title is required"})
		return
	}
	if req.Status == "" {
		req.Status = model.StatusOpen
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}

	f.mu.Lock()
	issue := f.addIssueLocked(req.Title, req.Description, req.Status, req.Priority)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, issue)
}

func (f *fakeBackend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/issues/")

	var req model.UpdateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid JSON body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.issues {
		if f.issues[i].ID != id {
			continue
		}
		if req.Title != nil {
			f.issues[i].Title = *req.Title
		}
		if req.Description != nil {
			f.issues[i].Description = *req.Description
		}
		if req.Status != nil {
			f.issues[i].Status = *req.Status
		}
		if req.Priority != nil {
			f.issues[i].Priority = *req.Priority
		}
		f.clock = f.clock.Add(time.Second)
		f.issues[i].UpdatedAt = f.clock
		writeJSON(w, http.StatusOK, f.issues[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": "issue not found"})
}

func (f *fakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/issues/")

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.issues {
		if f.issues[i].ID == id {
			f.issues = append(f.issues[:i], f.issues[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": "issue not found"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func newTestStore(t *testing.T, backend *fakeBackend) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	api := New(srv.URL)
	api.SetToken("test-token")
	return NewStore(api), srv
}

func (f *fakeBackend) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func TestStoreFetchPopulatesFilteredSortedState(t *testing.T) {
	backend := newFakeBackend()
	backend.addIssue("Login broken", model.StatusOpen, model.PriorityHigh)
	backend.addIssue("Search is slow", model.StatusInProgress, model.PriorityMedium)
	backend.addIssue("LOGIN page typo", model.StatusOpen, model.PriorityLow)
	backend.addIssue("Crash on logout", model.StatusResolved, model.PriorityHigh)

	store, _ := newTestStore(t, backend)

	err := store.Fetch(context.Background(), ListParams{Search: "login"})
	require.NoError(t, err)

	state := store.Snapshot()
	require.Len(t, state.Issues, 2)

	// Chaque ticket retourné satisfait le filtre
	for _, issue := range state.Issues {
		assert.Contains(t, strings.ToLower(issue.Title), "login")
	}

	// Tri created_at décroissant
	for i := 1; i < len(state.Issues); i++ {
		assert.False(t, state.Issues[i-1].CreatedAt.Before(state.Issues[i].CreatedAt))
	}

	// Les stats décrivent l'ensemble filtré, pas l'ensemble global
	total := 0
	for _, stat := range state.Stats {
		total += stat.Count
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, []model.IssueStats{{Status: model.StatusOpen, Count: 2}}, state.Stats)

	assert.Equal(t, 1, state.TotalPages)
	assert.Equal(t, 1, state.CurrentPage)
	assert.False(t, state.Loading)
	assert.Equal(t, ListParams{Search: "login"}, state.LastFetchParams)
}

func TestStoreFetchIdempotent(t *testing.T) {
	backend := newFakeBackend()
	for i := 0; i < 25; i++ {
		backend.addIssue("issue "+strconv.Itoa(i), model.StatusOpen, model.PriorityMedium)
	}

	store, _ := newTestStore(t, backend)
	params := ListParams{Page: 2}

	require.NoError(t, store.Fetch(context.Background(), params))
	first := store.Snapshot()

	require.NoError(t, store.Fetch(context.Background(), params))
	second := store.Snapshot()

	assert.Equal(t, first.Issues, second.Issues)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.TotalPages, second.TotalPages)
	assert.Equal(t, 3, second.TotalPages)
	assert.Equal(t, 2, second.CurrentPage)
	assert.Len(t, second.Issues, 10)
}

func TestStoreCreateResynchronizes(t *testing.T) {
	backend := newFakeBackend()
	backend.addIssue("Existing open", model.StatusOpen, model.PriorityMedium)
	backend.addIssue("Closed one", model.StatusClosed, model.PriorityLow)

	store, _ := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), ListParams{}))

	openCountBefore := statusCount(store.Snapshot().Stats, model.StatusOpen)

	err := store.CreateIssue(context.Background(), model.CreateIssueRequest{
		Title:       "A",
		Description: "d",
		Priority:    model.PriorityLow,
		Status:      model.StatusOpen,
	})
	require.NoError(t, err)

	state := store.Snapshot()

	// Le nouveau ticket apparaît exactement une fois, en tête (le plus récent)
	seen := 0
	for _, issue := range state.Issues {
		if issue.Title == "A" {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
	assert.Equal(t, "A", state.Issues[0].Title)

	// Le compteur Open augmente d'exactement 1
	assert.Equal(t, openCountBefore+1, statusCount(state.Stats, model.StatusOpen))
}

func TestStoreUpdateResynchronizes(t *testing.T) {
	backend := newFakeBackend()
	issue := backend.addIssue("To resolve", model.StatusOpen, model.PriorityMedium)

	store, _ := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), ListParams{}))

	resolved := model.StatusResolved
	err := store.UpdateIssue(context.Background(), issue.ID, model.UpdateIssueRequest{Status: &resolved})
	require.NoError(t, err)

	state := store.Snapshot()
	require.Len(t, state.Issues, 1)
	assert.Equal(t, model.StatusResolved, state.Issues[0].Status)
	assert.Equal(t, 0, statusCount(state.Stats, model.StatusOpen))
	assert.Equal(t, 1, statusCount(state.Stats, model.StatusResolved))
}

func TestStorePageBeyondLastIsEmptyNotError(t *testing.T) {
	backend := newFakeBackend()
	backend.addIssue("one", model.StatusOpen, model.PriorityLow)
	backend.addIssue("two", model.StatusOpen, model.PriorityLow)
	backend.addIssue("three", model.StatusOpen, model.PriorityLow)

	store, _ := newTestStore(t, backend)

	err := store.Fetch(context.Background(), ListParams{Page: 999})
	require.NoError(t, err)

	state := store.Snapshot()
	assert.Empty(t, state.Issues)
	assert.Equal(t, 1, state.TotalPages)
	assert.Equal(t, 999, state.CurrentPage)
}

func TestStoreDeleteNotFoundLeavesStateUntouched(t *testing.T) {
	backend := newFakeBackend()
	backend.addIssue("keep me", model.StatusOpen, model.PriorityMedium)

	store, _ := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), ListParams{}))
	before := store.Snapshot()
	callsBefore := backend.listCallCount()

	err := store.DeleteIssue(context.Background(), "issue-does-not-exist")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "issue not found")

	// Pas de refetch: la mutation a échoué avant la resynchronisation
	assert.Equal(t, callsBefore, backend.listCallCount())
	assert.Equal(t, before.Issues, store.Snapshot().Issues)
}

func TestStoreFetchFailureClearsIssuesKeepsStats(t *testing.T) {
	backend := newFakeBackend()
	backend.addIssue("visible", model.StatusOpen, model.PriorityMedium)

	store, _ := newTestStore(t, backend)
	require.NoError(t, store.Fetch(context.Background(), ListParams{}))
	require.NotEmpty(t, store.Snapshot().Stats)

	backend.mu.Lock()
	backend.failList = true
	backend.mu.Unlock()

	err := store.Fetch(context.Background(), ListParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage exploded")

	state := store.Snapshot()
	assert.Empty(t, state.Issues)
	// Les stats ne sont volontairement pas vidées en cas d'échec
	assert.Equal(t, []model.IssueStats{{Status: model.StatusOpen, Count: 1}}, state.Stats)
	assert.False(t, state.Loading)
}

func TestStoreStaleResponseIgnored(t *testing.T) {
	backend := newFakeBackend()
	backend.addIssue("slow result", model.StatusOpen, model.PriorityMedium)
	backend.addIssue("fresh result", model.StatusClosed, model.PriorityHigh)

	gate := make(chan struct{})
	backend.mu.Lock()
	backend.gate["slow"] = gate
	backend.mu.Unlock()

	store, _ := newTestStore(t, backend)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Ce fetch est émis en premier mais sa réponse arrivera en dernier
		_ = store.Fetch(context.Background(), ListParams{Search: "slow"})
	}()

	// Laisser le fetch lent partir avant d'émettre le plus récent
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, store.Fetch(context.Background(), ListParams{Search: "fresh"}))

	// Débloquer la réponse périmée
	close(gate)
	wg.Wait()

	// L'état reflète le fetch le plus récent, pas la réponse arrivée en dernier
	state := store.Snapshot()
	require.Len(t, state.Issues, 1)
	assert.Equal(t, "fresh result", state.Issues[0].Title)
	assert.Equal(t, ListParams{Search: "fresh"}, state.LastFetchParams)
}

func TestStoreSubscribeNotifiesAndUnsubscribes(t *testing.T) {
	backend := newFakeBackend()
	backend.addIssue("one", model.StatusOpen, model.PriorityMedium)

	store, _ := newTestStore(t, backend)

	var mu sync.Mutex
	var states []State
	unsubscribe := store.Subscribe(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	require.NoError(t, store.Fetch(context.Background(), ListParams{}))

	mu.Lock()
	// Une notification au départ du fetch (loading) et une à l'arrivée
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.Len(t, states[1].Issues, 1)
	mu.Unlock()

	unsubscribe()
	require.NoError(t, store.Fetch(context.Background(), ListParams{}))

	mu.Lock()
	assert.Len(t, states, 2)
	mu.Unlock()
}

func TestStoreUnauthenticatedFetchSurfacesServerMessage(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	api := New(srv.URL) // pas de token
	store := NewStore(api)

	err := store.Fetch(context.Background(), ListParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing authorization token")
}

func statusCount(stats []model.IssueStats, status model.Status) int {
	// Un statut absent des stats creuses compte pour zéro
	for _, stat := range stats {
		if stat.Status == status {
			return stat.Count
		}
	}
	return 0
}
