package domain

import "time"

// PaymentType is the water-meter size tier that determines how much a house
// owes each billing period.
type PaymentType string

const (
	SmallMeter  PaymentType = "SMALL_METER"
	MediumMeter PaymentType = "MEDIUM_METER"
	LargeMeter  PaymentType = "LARGE_METER"
)

// meterAmounts maps each tier to its monthly obligation in minor currency units.
var meterAmounts = map[PaymentType]int64{
	SmallMeter:  5000,
	MediumMeter: 10000,
	LargeMeter:  15000,
}

// Amount returns the required amount for the tier. Unknown or empty tiers fall
// back to the small-meter amount.
func (p PaymentType) Amount() int64 {
	if amt, ok := meterAmounts[p]; ok {
		return amt
	}
	return meterAmounts[SmallMeter]
}

// IsValidPaymentType reports whether p names a known meter tier.
func IsValidPaymentType(p PaymentType) bool {
	_, ok := meterAmounts[p]
	return ok
}

// Neighborhood is the root of the geographic hierarchy. Names are unique.
type Neighborhood struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Square is a sub-district inside a neighborhood.
type Square struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	NeighborhoodID string    `json:"neighborhood_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// House is the billable unit. House numbers are unique within a square.
type House struct {
	ID              string      `json:"id"`
	HouseNumber     string      `json:"house_number"`
	OwnerName       string      `json:"owner_name"`
	OwnerPhone      string      `json:"owner_phone"`
	IsOccupied      bool        `json:"is_occupied"`
	HasPaid         bool        `json:"has_paid"`
	PaymentType     PaymentType `json:"payment_type"`
	RequiredAmount  int64       `json:"required_amount"`
	LastPaymentDate *time.Time  `json:"last_payment_date,omitempty"`
	ReceiptImage    string      `json:"receipt_image,omitempty"`
	SquareID        string      `json:"square_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
