package units

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/stock"
	"github.com/mamadbah2/stockdesk/internal/metrics"
	"github.com/mamadbah2/stockdesk/internal/repository/mongodb"
)

// EmptyMessage is shown when no unit has been added yet.
const EmptyMessage = "No units added yet. Add your first unit above."

// Listing is the unit set as presented to the dashboard.
type Listing struct {
	Units   []string `json:"units"`
	Message string   `json:"message,omitempty"`
}

// Mutation reports the outcome of an add or remove.
type Mutation struct {
	Listing
	Changed bool `json:"changed"`
}

// Service keeps the unit set of one owner in memory and in the store.
type Service struct {
	owner   string
	manager *stock.UnitManager
	store   mongodb.UnitStore
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// NewService loads the owner's unit set from store. A nil store keeps the set in memory only.
func NewService(ctx context.Context, store mongodb.UnitStore, owner string, recorder *metrics.Recorder, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{owner: owner, store: store, metrics: recorder, logger: logger}

	var initial []string
	if store != nil {
		loaded, err := store.LoadUnits(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("failed to load unit set: %w", err)
		}
		initial = loaded
	}
	s.manager = stock.NewUnitManager(initial, s.persist)

	logger.Info("unit set loaded", zap.String("owner", owner), zap.Int("units", len(initial)))
	return s, nil
}

// List returns the current units.
func (s *Service) List() Listing {
	return listing(s.manager.Units())
}

// Add inserts candidate. Blank and duplicate candidates are ignored.
func (s *Service) Add(ctx context.Context, candidate string) (*Mutation, error) {
	changed, err := s.manager.Add(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if changed {
		s.metrics.UnitMutation("add")
	}
	return &Mutation{Listing: s.List(), Changed: changed}, nil
}

// Remove deletes unit. Absent units are ignored.
func (s *Service) Remove(ctx context.Context, unit string) (*Mutation, error) {
	changed, err := s.manager.Remove(ctx, unit)
	if err != nil {
		return nil, err
	}
	if changed {
		s.metrics.UnitMutation("remove")
	}
	return &Mutation{Listing: s.List(), Changed: changed}, nil
}

// Has reports whether unit belongs to the managed set.
func (s *Service) Has(unit string) bool {
	return s.manager.Contains(unit)
}

// Reload replaces the in-memory set with the stored one, picking up changes
// written by other instances.
func (s *Service) Reload(ctx context.Context) (Listing, error) {
	if s.store == nil {
		return s.List(), nil
	}
	loaded, err := s.store.LoadUnits(ctx, s.owner)
	if err != nil {
		return Listing{}, fmt.Errorf("failed to reload unit set: %w", err)
	}
	s.manager.Replace(loaded)
	s.logger.Info("unit set reloaded", zap.String("owner", s.owner), zap.Int("units", len(loaded)))
	return s.List(), nil
}

func (s *Service) persist(ctx context.Context, units []string) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveUnits(ctx, s.owner, units); err != nil {
		s.logger.Error("failed to persist unit set", zap.String("owner", s.owner), zap.Error(err))
		return err
	}
	return nil
}

func listing(units []string) Listing {
	l := Listing{Units: units}
	if len(units) == 0 {
		l.Message = EmptyMessage
	}
	return l
}
