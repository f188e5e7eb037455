package domain

import (
	"strings"
	"time"
)

// Address is the shipping destination captured at checkout.
type Address struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Missing lists the required fields that are blank.
func (a Address) Missing() []string {
	var out []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"street", a.Street},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentDeclined PaymentStatus = "declined"
	PaymentPending  PaymentStatus = "pending"
)

// PaymentDetails is the outcome reported by the payment collaborator.
type PaymentDetails struct {
	Provider      string        `json:"provider"`
	TransactionID string        `json:"transactionId"`
	Status        PaymentStatus `json:"status"`
	PaidAt        time.Time     `json:"paidAt"`
}
