package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type State string

const (
	StatePending     State = "pending"
	StateValidating  State = "validating"
	StateAuthorizing State = "authorizing"
	StateWriting     State = "writing"
	StateCommitted   State = "committed"
	StateRolledBack  State = "rolled_back"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// Executor runs a mutation inside one database transaction. The transaction is
// committed only when fn returns nil; every other path rolls back.
type Executor struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewExecutor(db *gorm.DB, logger *slog.Logger) *Executor {
	return &Executor{db: db, logger: logger}
}

func (e *Executor) DB() *gorm.DB {
	return e.db
}

// Run begins a transaction, calls fn with it and commits. Errors returned by fn
// are rolled back and normalized: AppErrors pass unchanged, foreign key violations
// become referential conflicts, unique violations become field errors on the
// rejected column and anything else becomes an internal error whose cause is only logged.
// The gorm handle must not translate errors, or the column and table names are lost.
func (e *Executor) Run(ctx context.Context, operation string, fn func(tx *gorm.DB) error) (err error) {
	tx := e.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return e.internal(operation, StatePending, fmt.Errorf("begin: %w", tx.Error))
	}

	e.logger.Debug("transaction started", "operation", operation, "tx_state", StateWriting)

	committed := false
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = e.internal(operation, StateRolledBack, fmt.Errorf("panic: %v", r))
			return
		}
		if !committed {
			if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
				e.logger.Warn("transaction rollback failed", "operation", operation, "error", rbErr)
			}
		}
	}()

	if fnErr := fn(tx); fnErr != nil {
		return e.normalize(operation, StateRolledBack, fnErr)
	}

	if commitErr := tx.Commit().Error; commitErr != nil {
		return e.normalize(operation, StateRolledBack, fmt.Errorf("commit: %w", commitErr))
	}
	committed = true

	e.logger.Debug("transaction committed", "operation", operation, "tx_state", StateCommitted)
	return nil
}

func (e *Executor) normalize(operation string, state State, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.Type == internal.ErrorTypeInternal {
			e.logger.Error("transaction failed", "operation", operation, "tx_state", state, "error", appErr.Cause)
		}
		return appErr
	}

	switch {
	case IsForeignKeyViolation(err):
		e.logger.Warn("transaction hit foreign key constraint", "operation", operation, "tx_state", state, "error", err)
		return foreignKeyError(err)
	case IsUniqueViolation(err):
		e.logger.Warn("transaction hit unique constraint", "operation", operation, "tx_state", state, "error", err)
		return duplicateError(err)
	}

	return e.internal(operation, state, err)
}

func (e *Executor) internal(operation string, state State, cause error) error {
	e.logger.Error("transaction failed", "operation", operation, "tx_state", state, "error", cause)
	return internal.NewInternalError(internal.InternalErrorMessage, cause)
}

func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
