package department

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	departmentDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/department"
	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/internal/core/referential"
	"github.com/frahmantamala/hr-management/internal/core/transaction"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	WithTx(tx *gorm.DB) RepositoryAPI
	GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
	Update(ctx context.Context, id int64, changes map[string]any) error
	Delete(ctx context.Context, id int64) error
}

var ErrDepartmentNotFound = internal.NewNotFoundError("Department not found", internal.ErrCodeDepartmentNotFound)

var deleteGuard = referential.Guard{
	Subject:    "Department",
	Table:      "departments",
	References: []referential.Reference{{Table: "employees", Column: "department_id"}},
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

func (s *Service) List(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}

	departments := make([]*Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, FromDataModel(row))
	}
	return departments, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get department", "department_id", id, "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if row == nil {
		return nil, ErrDepartmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, actorID int64, input map[string]any) (*Department, error) {
	fields, err := Rules.Validate(ctx, input, validation.Options{Operation: validation.OperationCreate, Lookup: s.lookup})
	if err != nil {
		return nil, err
	}

	row := newDataModel(fields)
	if err := s.executor.Run(ctx, "department.create", func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, row)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("department created", "department_id", row.ID, "name", row.Name)
	s.publish(ctx, events.NewEntityEvent(events.EventTypeDepartmentCreated, "department", row.ID, actorID, events.FieldNames(fields)))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actorID, id int64, input map[string]any) (*Department, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields, err := Rules.Validate(ctx, input, validation.Options{Operation: validation.OperationUpdate, ExcludeID: id, Lookup: s.lookup})
	if err != nil {
		return nil, err
	}

	var updated *departmentDatamodel.Department
	err = s.executor.Run(ctx, "department.update", func(tx *gorm.DB) error {
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
			return ErrDepartmentNotFound
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("department updated", "department_id", id, "fields", events.FieldNames(fields))
	s.publish(ctx, events.NewEntityEvent(events.EventTypeDepartmentUpdated, "department", id, actorID, events.FieldNames(fields)))
	return FromDataModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	err := s.executor.Run(ctx, "department.delete", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrDepartmentNotFound
		}
		if err := deleteGuard.Check(tx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("department deleted", "department_id", id)
	s.publish(ctx, events.NewEntityEvent(events.EventTypeDepartmentDeleted, "department", id, actorID, nil))
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
