package models

import "time"

// Book is one catalog record. Available tracks copies not currently on loan.
type Book struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Copies    int    `json:"copies"`
	Available int    `json:"available"`
}

// Loan records a borrowed copy.
type Loan struct {
	ISBN       string    `json:"isbn"`
	StudentID  string    `json:"studentId"`
	BorrowedAt time.Time `json:"borrowedAt"`
}
