// Package access implements the role/tenant authorization predicates.
// Authorize either allows a request outright, denies it, or allows it with a
// row filter that repositories append to their list queries.
package access

import "fmt"

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleTenantAdmin  Role = "tenant_admin"
	RoleTenantEditor Role = "tenant_editor"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Subject is the authenticated caller. A zero Subject is an anonymous caller.
type Subject struct {
	IdentityID int64
	Role       Role
	TenantID   int64
}

func (s Subject) Authenticated() bool { return s.IdentityID != 0 }

// Filter restricts a query to rows where Column equals Value.
type Filter struct {
	Column string
	Value  interface{}
}

// Clause renders the filter as a SQL predicate with the given positional
// placeholder index.
func (f *Filter) Clause(argPos int) (string, interface{}) {
	return fmt.Sprintf("%s = $%d", f.Column, argPos), f.Value
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Filter  *Filter
}

func Allow() Decision              { return Decision{Allowed: true} }
func Deny() Decision               { return Decision{} }
func AllowWhere(f Filter) Decision { return Decision{Allowed: true, Filter: &f} }

// Policy decides what a subject may do with a tenant-owned collection.
type Policy interface {
	Authorize(sub Subject, action Action) Decision
}

type superAdminPolicy struct{}

func (superAdminPolicy) Authorize(Subject, Action) Decision { return Allow() }

// tenantPolicy scopes everything to the subject's own tenant. Deletes are
// reserved for super admins; editors may create and update but publish
// gating happens at the service layer.
type tenantPolicy struct{}

func (tenantPolicy) Authorize(sub Subject, action Action) Decision {
	if sub.TenantID == 0 {
		return Deny()
	}
	if action == ActionDelete {
		return Deny()
	}
	return AllowWhere(Filter{Column: "tenant_id", Value: sub.TenantID})
}

// publicPolicy lets anonymous callers read published content only.
type publicPolicy struct{}

func (publicPolicy) Authorize(_ Subject, action Action) Decision {
	if action != ActionRead {
		return Deny()
	}
	return AllowWhere(Filter{Column: "published", Value: true})
}

var policies = map[Role]Policy{
	RoleSuperAdmin:   superAdminPolicy{},
	RoleTenantAdmin:  tenantPolicy{},
	RoleTenantEditor: tenantPolicy{},
}

// Authorize dispatches to the policy for the subject's role. Unknown roles
// and anonymous subjects fall through to the public policy.
func Authorize(sub Subject, action Action) Decision {
	if !sub.Authenticated() {
		return publicPolicy{}.Authorize(sub, action)
	}
	p, ok := policies[sub.Role]
	if !ok {
		return Deny()
	}
	return p.Authorize(sub, action)
}

// CanAccessTenant reports whether the subject may read data belonging to the
// given tenant (super admin, or a member of that tenant).
func CanAccessTenant(sub Subject, tenantID int64) bool {
	if sub.Role == RoleSuperAdmin {
		return true
	}
	return sub.TenantID != 0 && sub.TenantID == tenantID
}
