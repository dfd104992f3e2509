package client

import (
	"context"
	"sync"

	model "github.com/MassBabyGeek/TrackPro-backend/internal/models"
)

// State est l'instantané de la vue courante: page de tickets, stats du filtre,
// pagination et derniers paramètres de fetch
type State struct {
	Issues          []model.Issue
	Stats           []model.IssueStats
	Loading         bool
	CurrentPage     int
	TotalPages      int
	LastFetchParams ListParams
}

// Store est le cache partagé des tickets côté client. Il est l'unique
// écrivain de son état: l'UI le lit via Snapshot/Subscribe et passe par
// Fetch/CreateIssue/UpdateIssue/DeleteIssue pour le faire évoluer.
//
// Après chaque mutation le store relance le dernier listing au lieu de
// patcher son cache localement: la vérité vient toujours du serveur, au
// prix d'un aller-retour supplémentaire.
type Store struct {
	mu    sync.Mutex
	api   *Client
	state State

	// Numéro de génération des fetches: une réponse n'est appliquée que si
	// elle correspond au fetch le plus récent, sinon une réponse en retard
	// écraserait un état plus frais
	fetchSeq uint64

	nextSubID int
	subs      map[int]func(State)
}

func NewStore(api *Client) *Store {
	return &Store{
		api: api,
		state: State{
			Issues:      []model.Issue{},
			Stats:       []model.IssueStats{},
			CurrentPage: 1,
			TotalPages:  1,
		},
		subs: map[int]func(State){},
	}
}

// Snapshot retourne une copie de l'état courant
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

// Subscribe enregistre un observateur notifié à chaque changement d'état.
// Retourne la fonction de désabonnement.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Fetch exécute le listing et remplace l'état d'un bloc en cas de succès.
// En cas d'échec, la liste est vidée mais les stats restent telles quelles:
// asymétrie conservée du comportement d'origine du dashboard.
func (s *Store) Fetch(ctx context.Context, params ListParams) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.state.Loading = true
	s.state.LastFetchParams = params
	snapshot := s.copyStateLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	resp, err := s.api.ListIssues(ctx, params)

	s.mu.Lock()
	if seq != s.fetchSeq {
		// Un fetch plus récent a été émis entre-temps: cette réponse est périmée
		s.mu.Unlock()
		return err
	}

	if err != nil {
		s.state.Loading = false
		s.state.Issues = []model.Issue{}
		snapshot = s.copyStateLocked()
		s.mu.Unlock()
		s.notify(snapshot)
		return err
	}

	s.state.Issues = resp.Issues
	s.state.Stats = resp.Stats
	s.state.TotalPages = resp.TotalPages
	s.state.CurrentPage = resp.CurrentPage
	s.state.Loading = false
	snapshot = s.copyStateLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// CreateIssue crée un ticket puis resynchronise la vue depuis le serveur
func (s *Store) CreateIssue(ctx context.Context, data model.CreateIssueRequest) error {
	if _, err := s.api.CreateIssue(ctx, data); err != nil {
		return err
	}
	return s.Fetch(ctx, s.lastFetchParams())
}

// UpdateIssue modifie un ticket puis resynchronise la vue depuis le serveur
func (s *Store) UpdateIssue(ctx context.Context, id string, updates model.UpdateIssueRequest) error {
	if _, err := s.api.UpdateIssue(ctx, id, updates); err != nil {
		return err
	}
	return s.Fetch(ctx, s.lastFetchParams())
}

// DeleteIssue supprime un ticket puis resynchronise la vue depuis le serveur.
// Si la suppression échoue (ticket inexistant), l'état local n'est pas touché.
func (s *Store) DeleteIssue(ctx context.Context, id string) error {
	if err := s.api.DeleteIssue(ctx, id); err != nil {
		return err
	}
	return s.Fetch(ctx, s.lastFetchParams())
}

func (s *Store) lastFetchParams() ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastFetchParams
}

// copyStateLocked copie l'état, tranches comprises, pour que les lecteurs
// ne partagent jamais de mémoire avec le store. Appeler avec s.mu tenu.
func (s *Store) copyStateLocked() State {
	out := s.state
	out.Issues = append([]model.Issue(nil), s.state.Issues...)
	out.Stats = append([]model.IssueStats(nil), s.state.Stats...)
	return out
}

// notify appelle les observateurs sans tenir le verrou
func (s *Store) notify(snapshot State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
