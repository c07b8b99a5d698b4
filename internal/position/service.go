package position

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	positionDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/position"
	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/internal/core/referential"
	"github.com/frahmantamala/hr-management/internal/core/transaction"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	WithTx(tx *gorm.DB) RepositoryAPI
	GetAll(ctx context.Context) ([]*positionDatamodel.Position, error)
	GetByID(ctx context.Context, id int64) (*positionDatamodel.Position, error)
	Create(ctx context.Context, p *positionDatamodel.Position) error
	Update(ctx context.Context, id int64, changes map[string]any) error
	Delete(ctx context.Context, id int64) error
	GetEmployeeByUserID(ctx context.Context, userID int64) (*employeeDatamodel.Employee, error)
}

var ErrPositionNotFound = internal.NewNotFoundError("Position not found", internal.ErrCodePositionNotFound)

var deleteGuard = referential.Guard{
	Subject:    "Position",
	Table:      "positions",
	References: []referential.Reference{{Table: "employees", Column: "position_id"}},
}

type Service struct {
	repo     RepositoryAPI
	executor *transaction.Executor
	lookup   validation.Lookup
	bus      *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, executor *transaction.Executor, lookup validation.Lookup, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		executor: executor,
		lookup:   lookup,
		bus:      bus,
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Position, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list positions", "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}

	positions := make([]*Position, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, FromDataModel(row))
	}
	return positions, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Position, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get position", "position_id", id, "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if row == nil {
		return nil, ErrPositionNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, actorID int64, input map[string]any) (*Position, error) {
	fields, err := Rules.Validate(ctx, input, validation.Options{
		Operation: validation.OperationCreate,
		Lookup:    s.lookup,
	})
	if err != nil {
		return nil, err
	}

	row := newDataModel(fields)
	err = s.executor.Run(ctx, "position.create", func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("position created", "position_id", row.ID, "name", row.Name)
	s.publish(ctx, events.NewEntityEvent(events.EventTypePositionCreated, "position", row.ID, actorID, events.FieldNames(fields)))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actorID, id int64, input map[string]any) (*Position, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields, err := Rules.Validate(ctx, input, validation.Options{
		Operation: validation.OperationUpdate,
		ExcludeID: id,
		Lookup:    s.lookup,
	})
	if err != nil {
		return nil, err
	}

	var updated *positionDatamodel.Position
	err = s.executor.Run(ctx, "position.update", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(fields) > 0 {
			if err := repo.Update(ctx, id, map[string]any(fields)); err != nil {
				return err
			}
		}
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrPositionNotFound
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("position updated", "position_id", id, "fields", events.FieldNames(fields))
	s.publish(ctx, events.NewEntityEvent(events.EventTypePositionUpdated, "position", id, actorID, events.FieldNames(fields)))
	return FromDataModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	err := s.executor.Run(ctx, "position.delete", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrPositionNotFound
		}
		if err := deleteGuard.Check(tx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("position deleted", "position_id", id)
	s.publish(ctx, events.NewEntityEvent(events.EventTypePositionDeleted, "position", id, actorID, nil))
	return nil
}

// GetForUser returns the payroll rates of the position held by the user's employee record.
func (s *Service) GetForUser(ctx context.Context, userID int64) (*UserPositionResponse, error) {
	emp, err := s.repo.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load employee position", "user_id", userID, "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if emp == nil {
		return nil, internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)
	}

	resp := &UserPositionResponse{UserID: emp.UserID}
	if emp.Position != nil {
		resp.Position = &PayrollRates{
			ID:           emp.Position.ID,
			Name:         emp.Position.Name,
			RateReguler:  emp.Position.RateReguler,
			RateOvertime: emp.Position.RateOvertime,
		}
	}
	return resp, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
