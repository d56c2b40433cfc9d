package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	PaymentStatusPaid = "paid"
)

type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	PhotoURL         string     `json:"photoURL"`
	Role             string     `json:"role"`
	IsPremium        bool       `json:"isPremium"`
	PaymentStatus    string     `json:"paymentStatus,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	PaymentSessionID string     `json:"paymentSessionId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PremiumGrant carries what a confirmed checkout writes onto a user.
type PremiumGrant struct {
	SessionID string
	PaidAt    time.Time
}

type Stats struct {
	TotalUsers   int64 `json:"totalUsers"`
	PremiumUsers int64 `json:"premiumUsers"`
	TotalLessons int64 `json:"totalLessons"`
	TotalReports int64 `json:"totalReports"`
}
