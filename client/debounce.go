package client

import (
	"context"
	"sync"
	"time"

	model "github.com/MassBabyGeek/TrackPro-backend/internal/models"
)

// DefaultDebounce est la période de silence avant qu'une saisie de recherche
// ne déclenche un fetch
const DefaultDebounce = 500 * time.Millisecond

// Debouncer regroupe des événements rapprochés en une seule action après
// une période de silence. Sûr pour des déclenchements concurrents.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
	action   func()
	seq      uint64
}

func NewDebouncer(duration time.Duration, action func()) *Debouncer {
	return &Debouncer{duration: duration, action: action}
}

// Trigger (re)programme l'action après la période de silence. Chaque appel
// repart de zéro: l'action ne part qu'une fois le calme revenu.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	// Invalider les timers encore en vol
	d.seq++
	seq := d.seq

	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		// L'action tourne sans le verrou
		d.action()
	})
}

// Cancel annule l'action en attente s'il y en a une
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// FilterController fait le lien entre les contrôles de filtre de l'UI et le
// store. Les éditions du champ de recherche sont debouncées; les changements
// discrets (statut, priorité, reset) partent immédiatement. Tout changement
// de filtre ramène la pagination à la page 1; un changement de page seul
// conserve les filtres.
type FilterController struct {
	mu       sync.Mutex
	store    *Store
	debounce *Debouncer

	search   string
	status   model.Status
	priority model.Priority
	page     int
}

func NewFilterController(store *Store, delay time.Duration) *FilterController {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	f := &FilterController{
		store: store,
		page:  1,
	}
	f.debounce = NewDebouncer(delay, f.fetch)
	return f
}

// SetSearch met à jour le texte de recherche, ramène à la page 1 et
// programme un fetch après la période de silence
func (f *FilterController) SetSearch(search string) {
	f.mu.Lock()
	f.search = search
	f.page = 1
	f.mu.Unlock()

	f.debounce.Trigger()
}

// SetStatus applique le filtre de statut immédiatement, page remise à 1
func (f *FilterController) SetStatus(status model.Status) {
	f.mu.Lock()
	f.status = status
	f.page = 1
	f.mu.Unlock()

	f.fetchNow()
}

// SetPriority applique le filtre de priorité immédiatement, page remise à 1
func (f *FilterController) SetPriority(priority model.Priority) {
	f.mu.Lock()
	f.priority = priority
	f.page = 1
	f.mu.Unlock()

	f.fetchNow()
}

// SetPage change uniquement la page, les filtres restent en place
func (f *FilterController) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	f.mu.Lock()
	f.page = page
	f.mu.Unlock()

	f.fetchNow()
}

// ClearFilters remet tous les filtres à zéro et refetch immédiatement
func (f *FilterController) ClearFilters() {
	f.mu.Lock()
	f.search = ""
	f.status = ""
	f.priority = ""
	f.page = 1
	f.mu.Unlock()

	f.fetchNow()
}

// Params retourne les paramètres de listing courants du contrôleur
func (f *FilterController) Params() ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ListParams{
		Search:   f.search,
		Status:   f.status,
		Priority: f.priority,
		Page:     f.page,
	}
}

// fetchNow part immédiatement et rend caduc un éventuel fetch debouncé en
// attente: le fetch immédiat emporte déjà la valeur de recherche courante
func (f *FilterController) fetchNow() {
	f.debounce.Cancel()
	f.fetch()
}

func (f *FilterController) fetch() {
	// L'erreur est déjà reflétée dans l'état du store (liste vidée,
	// loading à false); la présentation des notifications n'est pas
	// du ressort du contrôleur
	_ = f.store.Fetch(context.Background(), f.Params())
}
