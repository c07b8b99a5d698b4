package user

import (
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-management/internal/employee"
	"github.com/samber/lo"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
)

// User is a directory entry: the login identity plus a summary of its employee record.
type User struct {
	ID       int64            `json:"id"`
	Email    string           `json:"email"`
	IsAdmin  bool             `json:"is_admin"`
	Employee *EmployeeSummary `json:"employee"`
}

type EmployeeSummary struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Gender       string    `json:"gender"`
	Address      string    `json:"address"`
	PositionID   *int64    `json:"position_id"`
	DepartmentID *int64    `json:"department_id"`
	Department   *NamedRef `json:"department"`
	Position     *NamedRef `json:"position"`
}

type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var accountRules = validation.RuleSet{
	{Field: "email", Presence: validation.Required, Kind: validation.KindEmail, MaxLength: 255,
		Unique: &validation.Ref{Table: "users", Column: "email"}},
	{Field: "password", Presence: validation.Required, Kind: validation.KindString,
		MinLength: MinPasswordLength, MaxBytes: MaxPasswordBytes},
	{Field: "is_admin", Kind: validation.KindBoolean},
}

// UpdateRules apply to the admin account update. All fields are optional there.
var UpdateRules = accountRules

// RegisterRules validate an account together with its employee record. The
// employee's user_id comes from the account being created.
var RegisterRules = append(append(validation.RuleSet{}, accountRules...),
	lo.Filter(employee.CreateRules, func(r validation.Rule, _ int) bool { return r.Field != "user_id" })...)

func newDataModel(fields validation.Fields, passwordHash string) *userDatamodel.User {
	u := &userDatamodel.User{Password: passwordHash}
	u.Email, _ = fields["email"].(string)
	u.IsAdmin, _ = fields["is_admin"].(bool)
	return u
}
