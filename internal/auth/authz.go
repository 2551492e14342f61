package auth

import (
	"github.com/efidev/issuetracker/model"
)

// Actor is the authenticated identity an operation runs as. The zero value
// has no capabilities. Handlers build an Actor from the session; the core
// never reads ambient session state itself.
type Actor struct {
	UserID     uint
	Username   string
	Role       string
	Company    *string
	Department *string
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// InScope reports whether the issue's company AND department both match the
// actor's own, by exact string equality. Admins are always in scope.
func (a Actor) InScope(issue *model.Issue) bool {
	if a.IsAdmin() {
		return true
	}
	return strEqual(issue.Company, a.Company) && strEqual(issue.Department, a.Department)
}

func strEqual(p, q *string) bool {
	if p == nil || q == nil {
		return p == q
	}
	return *p == *q
}

// CanCreateIssue reports whether the actor may create issues.
func CanCreateIssue(a Actor) bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleHOD
}

// CanEditIssue reports whether the actor may edit the given issue.
// HODs may only edit issues inside their own scope.
func CanEditIssue(a Actor, issue *model.Issue) bool {
	switch a.Role {
	case model.RoleAdmin:
		return true
	case model.RoleHOD:
		return a.InScope(issue)
	default:
		return false
	}
}

// CanDeleteIssue reports whether the actor may delete issues.
func CanDeleteIssue(a Actor) bool {
	return a.IsAdmin()
}

// CanViewIssue reports whether the actor may view the given issue.
func CanViewIssue(a Actor, issue *model.Issue) bool {
	return a.InScope(issue)
}

// CanManage reports whether the actor may manage users, companies,
// departments and applications.
func CanManage(a Actor) bool {
	return a.IsAdmin()
}

// CanViewAudit reports whether the actor may read audit entries.
func CanViewAudit(a Actor) bool {
	return a.IsAdmin()
}

// VisibilityFilter returns the company/department pair the actor's reads
// must be restricted to. Admins see everything (nil, nil).
func VisibilityFilter(a Actor) (company, department *string) {
	if a.IsAdmin() {
		return nil, nil
	}
	return a.Company, a.Department
}

// EnforceScope force-overwrites the company/department an hod actor submits
// with the actor's own values, preventing scope escalation via crafted
// input. Admin input passes through untouched.
func EnforceScope(a Actor, company, department *string) (*string, *string) {
	if a.Role == model.RoleHOD {
		return a.Company, a.Department
	}
	return company, department
}
