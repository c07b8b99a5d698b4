package employee

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/internal/core/transaction"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	WithTx(tx *gorm.DB) RepositoryAPI
	GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	Update(ctx context.Context, id int64, changes map[string]any) error
}

var ErrEmployeeNotFound = internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)

type Service struct {
	repo         RepositoryAPI
	executor     *transaction.Executor
	lookup       validation.Lookup
	policy       *Policy
	bus          *events.EventBus
	logger       *slog.Logger
	photoBaseURL string
}

func NewService(
	repo RepositoryAPI,
	executor *transaction.Executor,
	lookup validation.Lookup,
	policy *Policy,
	bus *events.EventBus,
	logger *slog.Logger,
	photoBaseURL string,
) *Service {
	if policy == nil {
		policy = NewPolicy(ModeReject)
	}
	return &Service{
		repo:         repo,
		executor:     executor,
		lookup:       lookup,
		policy:       policy,
		bus:          bus,
		logger:       logger,
		photoBaseURL: photoBaseURL,
	}
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}

	out := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row, s.photoBaseURL))
	}
	return out, nil
}

// Get returns an employee to its owner or to an admin.
func (s *Service) Get(ctx context.Context, caller internal.Principal, id int64) (*Employee, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ResolveRole(caller, row.UserID); err != nil {
		return nil, err
	}
	return FromDataModel(row, s.photoBaseURL), nil
}

func (s *Service) Create(ctx context.Context, actorID int64, input map[string]any) (*Employee, error) {
	fields, err := CreateRules.Validate(ctx, input, validation.Options{
		Operation: validation.OperationCreate,
		Lookup:    s.lookup,
	})
	if err != nil {
		return nil, err
	}

	row := NewDataModel(fields)
	var created *employeeDatamodel.Employee
	err = s.executor.Run(ctx, "employee.create", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, row); err != nil {
			return err
		}
		reloaded, err := repo.GetByID(ctx, row.ID)
		if err != nil {
			return err
		}
		created = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", row.ID, "user_id", row.UserID)
	s.publish(ctx, events.NewEntityEvent(events.EventTypeEmployeeCreated, "employee", row.ID, actorID, events.FieldNames(fields)))
	return FromDataModel(created, s.photoBaseURL), nil
}

// Update applies a partial update on behalf of caller. Fields outside the caller's
// role are rejected or dropped by the policy before any validation runs, and the
// write plus the reload of the employee and its relations share one transaction.
func (s *Service) Update(ctx context.Context, caller internal.Principal, id int64, input map[string]any) (*Employee, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("authorizing employee update", "employee_id", id, "tx_state", transaction.StateAuthorizing)
	role, err := ResolveRole(caller, row.UserID)
	if err != nil {
		return nil, err
	}
	permitted, err := s.policy.Authorize(role, input)
	if err != nil {
		s.logger.Warn("employee update denied", "employee_id", id, "role", role, "error", err)
		return nil, err
	}

	s.logger.Debug("validating employee update", "employee_id", id, "tx_state", transaction.StateValidating)
	fields, err := UpdateRules.Validate(ctx, permitted, validation.Options{
		Operation: validation.OperationUpdate,
		ExcludeID: id,
		Lookup:    s.lookup,
	})
	if err != nil {
		return nil, err
	}

	var updated *employeeDatamodel.Employee
	err = s.executor.Run(ctx, "employee.update", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(fields) > 0 {
			if err := repo.Update(ctx, id, map[string]any(fields)); err != nil {
				return err
			}
		}
		reloaded, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if reloaded == nil {
			return ErrEmployeeNotFound
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee updated", "employee_id", id, "role", role, "fields", events.FieldNames(fields))
	s.publish(ctx, events.NewEntityEvent(events.EventTypeEmployeeUpdated, "employee", id, caller.UserID, events.FieldNames(fields)))
	return FromDataModel(updated, s.photoBaseURL), nil
}

func (s *Service) find(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if row == nil {
		return nil, ErrEmployeeNotFound
	}
	return row, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
