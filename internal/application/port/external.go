package port

import (
	"context"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
)

// Directory resolves org relationships for approval chain building. It is a
// capability, not a concrete store: the engine has no dependency on where
// user records live.
type Directory interface {
	// ManagerOf returns the reporting manager of a user, or nil if the
	// user has none.
	ManagerOf(ctx context.Context, userID int64) (*entity.User, error)

	// UsersWithRole returns the company members holding the given role.
	UsersWithRole(ctx context.Context, companyID int64, role string) ([]*entity.User, error)
}

// CurrencyConverter converts an amount between currencies. Conversion is an
// external collaborator; the engine only consumes the converted amount.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount float64, fromCurrency, toCurrency string) (float64, error)
}
