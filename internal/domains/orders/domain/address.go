package domain

import "strings"

// Walk-in placeholder values used for point-of-sale orders.
const (
	WalkInFullName    = "Walk-in Customer"
	WalkInPhoneNumber = "1234567890"
	WalkInArea        = "In-Store"
	WalkInState       = "In-Store Sale"
)

// Address is a delivery destination owned by a user.
type Address struct {
	ID          string
	UserID      string
	FullName    string
	PhoneNumber string
	Area        string
	State       string
	Note        string
}

// NewWalkInAddress builds the placeholder address for a seller's counter sales.
func NewWalkInAddress(id, userID string) *Address {
	return &Address{
		ID:          id,
		UserID:      userID,
		FullName:    WalkInFullName,
		PhoneNumber: WalkInPhoneNumber,
		Area:        WalkInArea,
		State:       WalkInState,
	}
}

// IsWalkIn reports whether the address is a walk-in placeholder.
func (a *Address) IsWalkIn() bool {
	return a != nil && strings.EqualFold(a.FullName, WalkInFullName)
}

// Clone returns a copy of the address.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}
