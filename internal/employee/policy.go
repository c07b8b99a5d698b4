package employee

import (
	"slices"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/samber/lo"
)

type Role string

const (
	RoleSelf  Role = "self"
	RoleAdmin Role = "admin"
)

// Mode decides what happens to fields outside the caller's capability.
type Mode string

const (
	ModeReject Mode = "reject"
	ModeDrop   Mode = "drop"
)

// methodOverrideField is sent by HTML forms tunnelling PUT/PATCH and is never data.
const methodOverrideField = "_method"

var personalFields = []string{"first_name", "last_name", "gender", "address"}

// Capabilities lists the employee fields each role may write.
var Capabilities = map[Role][]string{
	RoleSelf:  personalFields,
	RoleAdmin: lo.Union(personalFields, []string{"employment_status", "position_id", "department_id"}),
}

type Policy struct {
	capabilities map[Role][]string
	mode         Mode
}

func NewPolicy(mode Mode) *Policy {
	if mode != ModeDrop {
		mode = ModeReject
	}
	return &Policy{capabilities: Capabilities, mode: mode}
}

func (p *Policy) Mode() Mode {
	return p.mode
}

// ResolveRole maps the caller onto a role for the employee owned by ownerUserID.
func ResolveRole(caller internal.Principal, ownerUserID int64) (Role, error) {
	switch {
	case caller.IsAdmin:
		return RoleAdmin, nil
	case caller.UserID != 0 && caller.UserID == ownerUserID:
		return RoleSelf, nil
	default:
		return "", internal.NewForbiddenError("You may only update your own employee record", internal.ErrCodeNotOwner)
	}
}

// Partition splits field names into those the role may write and those it may not.
// Both results are sorted; the method override key appears in neither.
func (p *Policy) Partition(role Role, fields []string) (allowed, rejected []string) {
	granted := p.capabilities[role]
	fields = lo.Without(fields, methodOverrideField)

	allowed = lo.Filter(fields, func(f string, _ int) bool { return lo.Contains(granted, f) })
	rejected = lo.Reject(fields, func(f string, _ int) bool { return lo.Contains(granted, f) })
	slices.Sort(allowed)
	slices.Sort(rejected)
	return allowed, rejected
}

// Authorize returns the subset of input the role may write. In reject mode any
// field outside the capability fails the whole update with the offending names.
func (p *Policy) Authorize(role Role, input map[string]any) (map[string]any, error) {
	allowed, rejected := p.Partition(role, lo.Keys(input))
	if len(rejected) > 0 && p.mode == ModeReject {
		return nil, internal.NewFieldsDeniedError(rejected)
	}
	return lo.PickByKeys(input, allowed), nil
}
