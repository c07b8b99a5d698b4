package employee

import (
	"strings"
	"time"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-management/internal/department"
	"github.com/frahmantamala/hr-management/internal/position"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	StatusActive     = "active"
	StatusLeave      = "leave"
	StatusResigned   = "resigned"
	StatusTerminated = "terminated"
)

var (
	Genders            = []string{GenderMale, GenderFemale}
	EmploymentStatuses = []string{StatusActive, StatusLeave, StatusResigned, StatusTerminated}
)

type Employee struct {
	ID               int64                  `json:"id"`
	UserID           int64                  `json:"user_id"`
	FirstName        string                 `json:"first_name"`
	LastName         string                 `json:"last_name"`
	FullName         string                 `json:"full_name"`
	Gender           string                 `json:"gender"`
	Address          string                 `json:"address"`
	EmploymentStatus string                 `json:"employment_status"`
	PositionID       *int64                 `json:"position_id"`
	DepartmentID     *int64                 `json:"department_id"`
	ProfilePhoto     *string                `json:"profile_photo"`
	ProfilePhotoURL  string                 `json:"profile_photo_url"`
	User             *Account               `json:"user,omitempty"`
	Position         *position.Position     `json:"position"`
	Department       *department.Department `json:"department"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Account is the login identity owning an employee record.
type Account struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// UpdateRules covers every field the update policy can grant.
var UpdateRules = validation.RuleSet{
	{Field: "first_name", Presence: validation.Required, Kind: validation.KindString, MaxLength: 100},
	{Field: "last_name", Presence: validation.Required, Kind: validation.KindString, MaxLength: 100},
	{Field: "gender", Presence: validation.Required, Kind: validation.KindString, OneOf: Genders},
	{Field: "address", Presence: validation.Filled, Kind: validation.KindString},
	{Field: "employment_status", Kind: validation.KindString, OneOf: EmploymentStatuses},
	{Field: "position_id", Kind: validation.KindInteger, Nullable: true, Exists: &validation.Ref{Table: "positions", Column: "id"}},
	{Field: "department_id", Kind: validation.KindInteger, Nullable: true, Exists: &validation.Ref{Table: "departments", Column: "id"}},
}

var CreateRules = append(validation.RuleSet{
	{Field: "user_id", Presence: validation.Required, Kind: validation.KindInteger,
		Exists: &validation.Ref{Table: "users", Column: "id"},
		Unique: &validation.Ref{Table: "employees", Column: "user_id"}},
}, UpdateRules...)

// FullName joins first and last name, trimming the gap when either is empty.
func FullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// PhotoURL resolves a stored profile photo path against the public storage base URL.
func PhotoURL(baseURL string, path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/storage/" + strings.TrimLeft(*path, "/")
}

// NewDataModel builds a row from validated create fields.
func NewDataModel(fields validation.Fields) *employeeDatamodel.Employee {
	e := &employeeDatamodel.Employee{EmploymentStatus: StatusActive}
	e.UserID, _ = fields["user_id"].(int64)
	e.FirstName, _ = fields["first_name"].(string)
	e.LastName, _ = fields["last_name"].(string)
	e.Gender, _ = fields["gender"].(string)
	e.Address, _ = fields["address"].(string)
	if status, ok := fields["employment_status"].(string); ok {
		e.EmploymentStatus = status
	}
	if id, ok := fields["position_id"].(int64); ok {
		e.PositionID = &id
	}
	if id, ok := fields["department_id"].(int64); ok {
		e.DepartmentID = &id
	}
	return e
}

func FromDataModel(e *employeeDatamodel.Employee, photoBaseURL string) *Employee {
	if e == nil {
		return nil
	}
	out := &Employee{
		ID:               e.ID,
		UserID:           e.UserID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		FullName:         FullName(e.FirstName, e.LastName),
		Gender:           e.Gender,
		Address:          e.Address,
		EmploymentStatus: e.EmploymentStatus,
		PositionID:       e.PositionID,
		DepartmentID:     e.DepartmentID,
		ProfilePhoto:     e.ProfilePhoto,
		ProfilePhotoURL:  PhotoURL(photoBaseURL, e.ProfilePhoto),
		Position:         position.FromDataModel(e.Position),
		Department:       department.FromDataModel(e.Department),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.User != nil {
		out.User = &Account{ID: e.User.ID, Email: e.User.Email, IsAdmin: e.User.IsAdmin}
	}
	return out
}
