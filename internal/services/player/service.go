package player

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/mcoot/playerdb/internal/model"
	"github.com/mcoot/playerdb/internal/query"
	"github.com/mcoot/playerdb/internal/storage"
)

// Service runs player operations against the store
type Service struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates a new player service
func New(store storage.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// List returns every player in natural store order
func (s *Service) List(ctx context.Context) ([]model.Player, error) {
	return s.players(ctx, query.All)
}

// Project returns a single column for every player
func (s *Service) Project(ctx context.Context, column string) ([]model.Row, error) {
	stmt, err := query.Project(column)
	if err != nil {
		return nil, err
	}

	return s.store.Query(ctx, stmt)
}

// Search returns players matching every field of the filter.
// Returns ErrPlayerNotFound when nothing matches.
func (s *Service) Search(ctx context.Context, filter query.Filter) ([]model.Player, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.matching(ctx, query.Equal(filter))
}

// Contains returns players whose firstname contains value
func (s *Service) Contains(ctx context.Context, value string) ([]model.Player, error) {
	return s.matching(ctx, query.Contains(value))
}

// Begins returns players whose firstname starts with value
func (s *Service) Begins(ctx context.Context, value string) ([]model.Player, error) {
	return s.matching(ctx, query.HasPrefix(value))
}

// After returns players whose last game is strictly after date
func (s *Service) After(ctx context.Context, date string) ([]model.Player, error) {
	return s.matching(ctx, query.After(date))
}

// Desc returns every player ordered by firstname, descending
func (s *Service) Desc(ctx context.Context) ([]model.Player, error) {
	return s.players(ctx, query.OrderedByFirstnameDesc)
}

// Get returns a single player
func (s *Service) Get(ctx context.Context, id model.PlayerID) (model.Player, error) {
	return s.fetch(ctx, s.store, id)
}

// Create inserts a new player and returns the stored row
func (s *Service) Create(ctx context.Context, in model.PlayerInput) (model.Player, error) {
	stmt, err := query.Insert(in)
	if err != nil {
		return model.Player{}, err
	}

	var created model.Player
	err = s.store.Session(ctx, func(ex storage.Executor) error {
		res, err := ex.Exec(ctx, stmt)
		if err != nil {
			return err
		}
		created, err = s.fetch(ctx, ex, model.PlayerID(res.LastInsertID))
		return err
	})
	if err != nil {
		return model.Player{}, err
	}

	s.logger.Info("player created", "player_id", created.ID)
	return created, nil
}

// Update replaces the mutable fields of an existing player
func (s *Service) Update(ctx context.Context, id model.PlayerID, in model.PlayerInput) (model.Player, error) {
	stmt, err := query.Update(id, in)
	if err != nil {
		return model.Player{}, err
	}

	updated, err := s.writeThenFetch(ctx, id, stmt)
	if err != nil {
		return model.Player{}, err
	}

	s.logger.Info("player updated", "player_id", id)
	return updated, nil
}

// Toggle flips isok without validating anything else
func (s *Service) Toggle(ctx context.Context, id model.PlayerID) (model.Player, error) {
	stmt, err := query.Toggle(id)
	if err != nil {
		return model.Player{}, err
	}

	toggled, err := s.writeThenFetch(ctx, id, stmt)
	if err != nil {
		return model.Player{}, err
	}

	s.logger.Info("player toggled", "player_id", id, "isok", toggled.IsOK)
	return toggled, nil
}

// Delete removes a single player and returns the number of rows deleted
func (s *Service) Delete(ctx context.Context, id model.PlayerID) (int64, error) {
	stmt, err := query.Delete(id)
	if err != nil {
		return 0, err
	}

	res, err := s.store.Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("player %d: %w", id, model.ErrPlayerNotFound)
	}

	s.logger.Info("player deleted", "player_id", id)
	return res.RowsAffected, nil
}

// DeleteInactive removes every player whose isok is false
func (s *Service) DeleteInactive(ctx context.Context) (int64, error) {
	stmt, err := query.DeleteInactive()
	if err != nil {
		return 0, err
	}

	res, err := s.store.Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}

	s.logger.Info("inactive players deleted", "count", res.RowsAffected)
	return res.RowsAffected, nil
}

// writeThenFetch runs stmt and reads the player back on the same connection.
// Zero affected rows is not treated as missing, since MySQL reports zero
// for an update that changes nothing.
func (s *Service) writeThenFetch(ctx context.Context, id model.PlayerID, stmt query.Statement) (model.Player, error) {
	var p model.Player
	err := s.store.Session(ctx, func(ex storage.Executor) error {
		if _, err := ex.Exec(ctx, stmt); err != nil {
			return err
		}
		var err error
		p, err = s.fetch(ctx, ex, id)
		return err
	})
	return p, err
}

func (s *Service) fetch(ctx context.Context, ex storage.Executor, id model.PlayerID) (model.Player, error) {
	stmt, err := query.ByID(id)
	if err != nil {
		return model.Player{}, err
	}

	rows, err := ex.Query(ctx, stmt)
	if err != nil {
		return model.Player{}, err
	}
	if len(rows) == 0 {
		return model.Player{}, fmt.Errorf("player %d: %w", id, model.ErrPlayerNotFound)
	}
	return model.PlayerFromRow(rows[0])
}

// matching selects rows for where and reports an empty result as not found
func (s *Service) matching(ctx context.Context, where sq.Sqlizer) ([]model.Player, error) {
	result, err := s.players(ctx, func() (query.Statement, error) {
		return query.Select(where)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return result, nil
}

func (s *Service) players(ctx context.Context, build func() (query.Statement, error)) ([]model.Player, error) {
	stmt, err := build()
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	result := make([]model.Player, 0, len(rows))
	for _, row := range rows {
		p, err := model.PlayerFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}
