package shop

import "errors"

// Validation errors surfaced to the caller with a human readable reason.
// Handlers map them onto HTTP statuses; anything else is a storage failure.
var (
	ErrCartNotFound          = errors.New("no cart found with the given id")
	ErrCartEmpty             = errors.New("the cart is empty")
	ErrCartItemNotFound      = errors.New("no cart item found with the given id")
	ErrProductNotFound       = errors.New("no product found with the given id")
	ErrCustomerNotFound      = errors.New("no customer found for the given user")
	ErrOrderNotFound         = errors.New("no order found with the given id")
	ErrInsufficientInventory = errors.New("not enough inventory")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
)

// IsValidationError reports whether err is a caller error rather than a
// storage failure.
func IsValidationError(err error) bool {
	for _, e := range []error{
		ErrCartNotFound, ErrCartEmpty, ErrCartItemNotFound,
		ErrProductNotFound, ErrCustomerNotFound, ErrOrderNotFound,
		ErrInsufficientInventory, ErrInvalidQuantity,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
