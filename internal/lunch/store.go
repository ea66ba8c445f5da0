package lunch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dotcommander/lunchpick/internal/models"
)

// Store is the single source of truth for the option collection.
type Store struct {
	backend Backend
	now     func() time.Time
	intn    func(n int) int
	newID   func() string
	log     *slog.Logger

	// mu serializes read-modify-persist within this process.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for lastEaten stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRand replaces the random source used by ChooseRandom.
// intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(s *Store) { s.intn = intn }
}

// WithIDs replaces the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger for recovered read failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns a Store persisting through b.
func NewStore(b Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		now:     time.Now,
		intn:    rand.IntN,
		newID:   GenerateOptionID,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateOptionID returns an id of the form lunch_<uuid>.
func GenerateOptionID() string {
	return "lunch_" + uuid.NewString()
}

// NewOption builds a record from input with defaults applied and lastEaten unset.
func NewOption(id string, in models.OptionInput) models.LunchOption {
	in = in.WithDefaults()
	return models.LunchOption{
		ID:         id,
		Name:       in.Name,
		Type:       in.Type,
		Distance:   in.Distance,
		IsFavorite: in.IsFavorite,
	}
}

// All returns the collection in insertion order. It never fails: a missing,
// unreadable or corrupt value reads as an empty collection.
func (s *Store) All(ctx context.Context) []models.LunchOption {
	raw, ok, err := s.backend.Get(ctx, OptionsKey)
	if err != nil {
		s.log.Warn("lunch options unreadable, treating as empty", "error", err.Error())
		return []models.LunchOption{}
	}
	if !ok {
		return []models.LunchOption{}
	}
	return s.decode(raw)
}

// Get returns the option with id.
func (s *Store) Get(ctx context.Context, id string) (models.LunchOption, bool) {
	for _, o := range s.All(ctx) {
		if o.ID == id {
			return o, true
		}
	}
	return models.LunchOption{}, false
}

// Create appends a new option and returns the updated collection.
// Input is not validated here; see models.OptionInput.Validate.
func (s *Store) Create(ctx context.Context, in models.OptionInput) ([]models.LunchOption, error) {
	return s.mutate(ctx, "create", func(opts []models.LunchOption) []models.LunchOption {
		return append(opts, NewOption(s.newID(), in))
	})
}

// Delete removes the option with id. An unknown id leaves the collection as is.
func (s *Store) Delete(ctx context.Context, id string) ([]models.LunchOption, error) {
	return s.mutate(ctx, "delete", func(opts []models.LunchOption) []models.LunchOption {
		out := opts[:0]
		for _, o := range opts {
			if o.ID != id {
				out = append(out, o)
			}
		}
		return out
	})
}

// MarkAsEaten stamps lastEaten on the option with id. An unknown id is a no-op.
func (s *Store) MarkAsEaten(ctx context.Context, id string) ([]models.LunchOption, error) {
	return s.mutate(ctx, "mark eaten", func(opts []models.LunchOption) []models.LunchOption {
		for i := range opts {
			if opts[i].ID == id {
				ts := s.now().UTC().Truncate(time.Millisecond)
				opts[i].LastEaten = &ts
			}
		}
		return opts
	})
}

// ChooseRandom returns a uniformly chosen option, or nil when there are none.
// Eaten options are not excluded.
func (s *Store) ChooseRandom(ctx context.Context) *models.LunchOption {
	opts := s.All(ctx)
	if len(opts) == 0 {
		return nil
	}
	chosen := opts[s.intn(len(opts))]
	return &chosen
}

// ImportMerge appends every candidate whose name is not already stored and
// returns how many were added.
//
// Names are compared against the collection as it was before the import,
// so two new candidates sharing a name are both added.
func (s *Store) ImportMerge(ctx context.Context, candidates []models.OptionInput) (int, error) {
	added := 0
	_, err := s.mutate(ctx, "import", func(opts []models.LunchOption) []models.LunchOption {
		added = 0
		existing := make(map[string]struct{}, len(opts))
		for _, o := range opts {
			existing[o.Name] = struct{}{}
		}
		for _, c := range candidates {
			if _, dup := existing[c.Name]; dup {
				continue
			}
			opts = append(opts, NewOption(s.newID(), c))
			added++
		}
		return opts
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// mutate applies fn to the stored collection and persists the result.
// fn may run more than once if the backend retries.
func (s *Store) mutate(ctx context.Context, op string, fn func([]models.LunchOption) []models.LunchOption) ([]models.LunchOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.LunchOption
	err := s.backend.Update(ctx, OptionsKey, func(current string, ok bool) (string, error) {
		opts := []models.LunchOption{}
		if ok {
			opts = s.decode(current)
		}
		result = fn(opts)
		b, err := json.Marshal(result)
		if err != nil {
			return "", fmt.Errorf("encode lunch options: %w", err)
		}
		return string(b), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s lunch option: %w", op, err)
	}
	return result, nil
}

// decode parses the stored array one record at a time. A value that is not
// a JSON array reads as empty; an element that is not a record is skipped.
func (s *Store) decode(raw string) []models.LunchOption {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("lunch options corrupt, treating as empty", "error", err.Error())
		return []models.LunchOption{}
	}

	opts := make([]models.LunchOption, 0, len(items))
	for i, item := range items {
		var o models.LunchOption
		if err := json.Unmarshal(item, &o); err != nil {
			s.log.Warn("skipping unreadable lunch option", "index", i, "error", err.Error())
			continue
		}
		opts = append(opts, o)
	}
	return opts
}
