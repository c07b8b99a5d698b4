package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/internal/core/transaction"
	"github.com/frahmantamala/hr-management/internal/employee"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RepositoryAPI is the write side of the user aggregate.
type RepositoryAPI interface {
	WithTx(tx *gorm.DB) RepositoryAPI
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, id int64, changes map[string]any) error
	CreateEmployee(ctx context.Context, e *employeeDatamodel.Employee) error
}

// DirectoryAPI is the read side: users joined with their employee, department and position names.
type DirectoryAPI interface {
	List(ctx context.Context) ([]*User, error)
	Get(ctx context.Context, id int64) (*User, error)
}

var ErrUserNotFound = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)

type Service struct {
	repo       RepositoryAPI
	directory  DirectoryAPI
	executor   *transaction.Executor
	lookup     validation.Lookup
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
}

func NewService(
	repo RepositoryAPI,
	directory DirectoryAPI,
	executor *transaction.Executor,
	lookup validation.Lookup,
	bus *events.EventBus,
	logger *slog.Logger,
	bcryptCost int,
) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		directory:  directory,
		executor:   executor,
		lookup:     lookup,
		bus:        bus,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.directory.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.directory.Get(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) Me(ctx context.Context, caller internal.Principal) (*User, error) {
	return s.Get(ctx, caller.UserID)
}

// Update changes email, password or the admin flag of an account. A new
// password is stored as a bcrypt hash.
func (s *Service) Update(ctx context.Context, actorID, id int64, input map[string]any) (*User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	fields, err := UpdateRules.Validate(ctx, input, validation.Options{
		Operation: validation.OperationUpdate,
		ExcludeID: id,
		Lookup:    s.lookup,
	})
	if err != nil {
		return nil, err
	}

	changes := map[string]any(fields)
	if password, ok := fields["password"].(string); ok {
		hash, err := s.hash(password)
		if err != nil {
			return nil, err
		}
		changes["password"] = hash
	}

	err = s.executor.Run(ctx, "user.update", func(tx *gorm.DB) error {
		if len(changes) == 0 {
			return nil
		}
		return s.repo.WithTx(tx).Update(ctx, id, changes)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "fields", events.FieldNames(fields))
	s.publish(ctx, events.NewEntityEvent(events.EventTypeUserUpdated, "user", id, actorID, events.FieldNames(fields)))
	return s.Get(ctx, id)
}

// Register creates an account and its employee record in one transaction.
func (s *Service) Register(ctx context.Context, actorID int64, input map[string]any) (*User, error) {
	fields, err := RegisterRules.Validate(ctx, input, validation.Options{
		Operation: validation.OperationCreate,
		Lookup:    s.lookup,
	})
	if err != nil {
		return nil, err
	}

	hash, err := s.hash(fields["password"].(string))
	if err != nil {
		return nil, err
	}

	account := newDataModel(fields, hash)
	err = s.executor.Run(ctx, "user.register", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, account); err != nil {
			return err
		}
		record := employee.NewDataModel(fields)
		record.UserID = account.ID
		return repo.CreateEmployee(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", account.ID, "email", account.Email)
	s.publish(ctx, events.NewEntityEvent(events.EventTypeUserRegistered, "user", account.ID, actorID, events.FieldNames(fields)))
	return s.Get(ctx, account.ID)
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", internal.NewValidationFieldError("password",
			fmt.Sprintf("The password may not be greater than %d bytes.", MaxPasswordBytes), internal.ErrCodeTooLong)
	}
	if err != nil {
		return "", internal.NewInternalError(internal.InternalErrorMessage, fmt.Errorf("hash password: %w", err))
	}
	return string(hash), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
