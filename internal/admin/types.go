package admin

import "github.com/shopspring/decimal"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

type User struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       Role            `json:"role"`
	Orders     int             `json:"orders"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Status     UserStatus      `json:"status"`
	JoinDate   string          `json:"joinDate"`
}

// StatCard is one dashboard headline figure; Change is the period-over-period percentage.
type StatCard struct {
	Title  string  `json:"title"`
	Value  string  `json:"value"`
	Change float64 `json:"change"`
}

type TopProduct struct {
	Name    string          `json:"name"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

type MonthlySales struct {
	Month string `json:"month"`
	Sales int    `json:"sales"`
}

type CategoryShare struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
