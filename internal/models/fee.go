package models

import "time"

// FeePayment is one ledger entry. TxnID is server-assigned.
type FeePayment struct {
	TxnID     string    `json:"txnId"`
	StudentID string    `json:"studentId"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paidAt"`
}

// Clearance reports whether a student owes no outstanding balance.
type Clearance struct {
	StudentID string `json:"studentId"`
	Cleared   bool   `json:"cleared"`
}
