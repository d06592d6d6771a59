package domain

import "time"

// PaymentMethod labels how a donor says they paid. Nothing is charged.
type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
)

// Donation is a ledger entry written together with the raised increment.
type Donation struct {
	ID        string        `json:"id"`
	CaseID    string        `json:"case_id"`
	UserID    string        `json:"user_id"`
	Amount    int64         `json:"amount"`
	Method    PaymentMethod `json:"method"`
	CreatedAt time.Time     `json:"created_at"`
}
