package desksvc

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/backend-labs/portal/internal/service/services/composersvc"
	"github.com/corray333/backend-labs/portal/internal/service/services/historysvc"
	"github.com/google/uuid"
)

// ErrDeskNotFound is returned for an unknown or closed desk id.
var ErrDeskNotFound = errors.New("desk not found")

// Desk is one open order form together with its history view.
type Desk struct {
	ID       string
	OpenedAt time.Time
	Composer *composersvc.Composer
	History  *historysvc.Viewer
}

// Registry tracks the open desks.
type Registry struct {
	mu          sync.RWMutex
	desks       map[string]*Desk
	newComposer func() *composersvc.Composer
	newViewer   func() *historysvc.Viewer
	newID       func() string
	now         func() time.Time
}

// option is a function that configures the Registry.
type option func(*Registry)

// WithIDGenerator sets the generator of desk ids.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithIDGenerator(newID func() string) option {
	return func(r *Registry) {
		r.newID = newID
	}
}

// WithClock sets the clock used for OpenedAt.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a Registry building desks with the given factories.
func NewRegistry(
	newComposer func() *composersvc.Composer,
	newViewer func() *historysvc.Viewer,
	opts ...option,
) *Registry {
	r := &Registry{
		desks:       make(map[string]*Desk),
		newComposer: newComposer,
		newViewer:   newViewer,
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Open creates a desk, preselecting branch when it is not empty.
func (r *Registry) Open(branch string) (*Desk, error) {
	composer := r.newComposer()
	if branch != "" {
		if err := composer.SetHeader(composersvc.FieldBranch, branch); err != nil {
			composer.Close()

			return nil, err
		}
	}

	desk := &Desk{
		ID:       r.newID(),
		OpenedAt: r.now(),
		Composer: composer,
		History:  r.newViewer(),
	}

	r.mu.Lock()
	r.desks[desk.ID] = desk
	r.mu.Unlock()

	slog.Info("Desk opened", "desk_id", desk.ID, "branch", branch)

	return desk, nil
}

// Get returns an open desk.
func (r *Registry) Get(id string) (*Desk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desk, ok := r.desks[id]
	if !ok {
		return nil, ErrDeskNotFound
	}

	return desk, nil
}

// Close stops the desk's pending searches and forgets it.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	desk, ok := r.desks[id]
	delete(r.desks, id)
	r.mu.Unlock()

	if !ok {
		return ErrDeskNotFound
	}
	desk.Composer.Close()
	slog.Info("Desk closed", "desk_id", id)

	return nil
}

// CloseAll closes every open desk.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	desks := r.desks
	r.desks = make(map[string]*Desk)
	r.mu.Unlock()

	for _, desk := range desks {
		desk.Composer.Close()
	}
}

// Len returns the number of open desks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.desks)
}
