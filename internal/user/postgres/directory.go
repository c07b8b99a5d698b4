package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/hr-management/internal/user"
	"github.com/jmoiron/sqlx"
)

const directoryQuery = `
SELECT u.id, u.email, u.is_admin,
       e.id AS employee_id, e.first_name, e.last_name, e.gender, e.address,
       e.position_id, e.department_id,
       d.name AS department_name, p.name AS position_name
FROM users u
LEFT JOIN employees e ON e.user_id = u.id
LEFT JOIN departments d ON d.id = e.department_id
LEFT JOIN positions p ON p.id = e.position_id`

type directoryRow struct {
	ID             int64          `db:"id"`
	Email          string         `db:"email"`
	IsAdmin        bool           `db:"is_admin"`
	EmployeeID     sql.NullInt64  `db:"employee_id"`
	FirstName      sql.NullString `db:"first_name"`
	LastName       sql.NullString `db:"last_name"`
	Gender         sql.NullString `db:"gender"`
	Address        sql.NullString `db:"address"`
	PositionID     sql.NullInt64  `db:"position_id"`
	DepartmentID   sql.NullInt64  `db:"department_id"`
	DepartmentName sql.NullString `db:"department_name"`
	PositionName   sql.NullString `db:"position_name"`
}

// Directory reads users with their employee summary in a single joined query.
type Directory struct {
	db *sqlx.DB
}

func NewDirectory(db *sqlx.DB) user.DirectoryAPI {
	return &Directory{db: db}
}

func (d *Directory) List(ctx context.Context) ([]*user.User, error) {
	var rows []directoryRow
	if err := d.db.SelectContext(ctx, &rows, directoryQuery+" ORDER BY u.id"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

func (d *Directory) Get(ctx context.Context, id int64) (*user.User, error) {
	var row directoryRow
	err := d.db.GetContext(ctx, &row, d.db.Rebind(directoryQuery+" WHERE u.id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r directoryRow) toDomain() *user.User {
	u := &user.User{ID: r.ID, Email: r.Email, IsAdmin: r.IsAdmin}
	if !r.EmployeeID.Valid {
		return u
	}

	u.Employee = &user.EmployeeSummary{
		ID:        r.EmployeeID.Int64,
		UserID:    r.ID,
		FirstName: r.FirstName.String,
		LastName:  r.LastName.String,
		Gender:    r.Gender.String,
		Address:   r.Address.String,
	}
	if r.PositionID.Valid {
		id := r.PositionID.Int64
		u.Employee.PositionID = &id
		u.Employee.Position = &user.NamedRef{ID: id, Name: r.PositionName.String}
	}
	if r.DepartmentID.Valid {
		id := r.DepartmentID.Int64
		u.Employee.DepartmentID = &id
		u.Employee.Department = &user.NamedRef{ID: id, Name: r.DepartmentName.String}
	}
	return u
}
