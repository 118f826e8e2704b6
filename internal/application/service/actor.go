package service

import "github.com/MadhavDodiya/expense-management/internal/domain/entity"

// Actor identifies the authenticated caller. It is built from verified
// token claims by the HTTP layer; services trust it.
type Actor struct {
	UserID    int64
	CompanyID int64
	Role      string
}

// IsAdmin returns true for company administrators.
func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// IsManager returns true for managers.
func (a Actor) IsManager() bool {
	return a.Role == entity.RoleManager
}
