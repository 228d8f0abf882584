package admin

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/shopspring/decimal"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedOrders() []orders.Order {
	return []orders.Order{
		{ID: "ORD-001", Customer: "John Doe", Email: "john@example.com", Items: 3, Total: usd("299.00"), Status: orders.StatusCompleted, PaymentStatus: orders.PaymentPaid, Date: at("2026-01-19T10:30:00"), ShippingAddress: "123 Main St, New York, NY 10001"},
		{ID: "ORD-002", Customer: "Jane Smith", Email: "jane@example.com", Items: 1, Total: usd("1299.00"), Status: orders.StatusProcessing, PaymentStatus: orders.PaymentPaid, Date: at("2026-01-19T09:15:00"), ShippingAddress: "456 Oak Ave, Los Angeles, CA 90001"},
		{ID: "ORD-003", Customer: "Bob Wilson", Email: "bob@example.com", Items: 2, Total: usd("89.00"), Status: orders.StatusPending, PaymentStatus: orders.PaymentPending, Date: at("2026-01-19T08:45:00"), ShippingAddress: "789 Pine Rd, Chicago, IL 60601"},
		{ID: "ORD-004", Customer: "Alice Brown", Email: "alice@example.com", Items: 5, Total: usd("549.00"), Status: orders.StatusShipped, PaymentStatus: orders.PaymentPaid, Date: at("2026-01-18T16:20:00"), ShippingAddress: "321 Elm St, Houston, TX 77001"},
		{ID: "ORD-005", Customer: "Charlie Davis", Email: "charlie@example.com", Items: 1, Total: usd("199.00"), Status: orders.StatusCancelled, PaymentStatus: orders.PaymentRefunded, Date: at("2026-01-18T14:10:00"), ShippingAddress: "654 Maple Dr, Phoenix, AZ 85001"},
		{ID: "ORD-006", Customer: "Diana Evans", Email: "diana@example.com", Items: 4, Total: usd("756.00"), Status: orders.StatusDelivered, PaymentStatus: orders.PaymentPaid, Date: at("2026-01-17T11:00:00"), ShippingAddress: "987 Cedar Ln, Philadelphia, PA 19101"},
		{ID: "ORD-007", Customer: "Frank Garcia", Email: "frank@example.com", Items: 2, Total: usd("328.00"), Status: orders.StatusProcessing, PaymentStatus: orders.PaymentPaid, Date: at("2026-01-17T09:30:00"), ShippingAddress: "147 Birch Way, San Antonio, TX 78201"},
		{ID: "ORD-008", Customer: "Grace Harris", Email: "grace@example.com", Items: 3, Total: usd("445.00"), Status: orders.StatusShipped, PaymentStatus: orders.PaymentPaid, Date: at("2026-01-16T15:45:00"), ShippingAddress: "258 Walnut Ct, San Diego, CA 92101"},
	}
}

var seedUsers = []User{
	{ID: "1", Name: "John Doe", Email: "john@example.com", Role: RoleCustomer, Orders: 12, TotalSpent: usd("2499.00"), Status: UserActive, JoinDate: "2025-06-15"},
	{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Role: RoleCustomer, Orders: 8, TotalSpent: usd("1875.00"), Status: UserActive, JoinDate: "2025-07-22"},
	{ID: "3", Name: "Admin User", Email: "admin@ecommerce.com", Role: RoleAdmin, Orders: 0, TotalSpent: decimal.Zero, Status: UserActive, JoinDate: "2025-01-01"},
	{ID: "4", Name: "Bob Wilson", Email: "bob@example.com", Role: RoleCustomer, Orders: 3, TotalSpent: usd("450.00"), Status: UserActive, JoinDate: "2025-09-10"},
	{ID: "5", Name: "Premium Vendor", Email: "vendor@ecommerce.com", Role: RoleVendor, Orders: 0, TotalSpent: decimal.Zero, Status: UserActive, JoinDate: "2025-01-01"},
	{ID: "6", Name: "Alice Brown", Email: "alice@example.com", Role: RoleCustomer, Orders: 15, TotalSpent: usd("3200.00"), Status: UserActive, JoinDate: "2025-05-03"},
	{ID: "7", Name: "Charlie Davis", Email: "charlie@example.com", Role: RoleCustomer, Orders: 1, TotalSpent: usd("199.00"), Status: UserInactive, JoinDate: "2025-11-20"},
}

var seedStats = []StatCard{
	{Title: "Total Revenue", Value: "$48,294", Change: 12.5},
	{Title: "Total Orders", Value: "1,248", Change: 8.2},
	{Title: "Total Customers", Value: "3,847", Change: -2.4},
	{Title: "Total Products", Value: "25", Change: 4.1},
}

var seedTopProducts = []TopProduct{
	{Name: `MacBook Pro 14"`, Sales: 124, Revenue: usd("247876")},
	{Name: "iPhone 15 Pro", Sales: 256, Revenue: usd("306944")},
	{Name: "AirPods Pro 2", Sales: 189, Revenue: usd("47061")},
	{Name: "iPad Air", Sales: 98, Revenue: usd("58702")},
}

var seedSales = []MonthlySales{
	{Month: "Jan", Sales: 4000},
	{Month: "Feb", Sales: 3000},
	{Month: "Mar", Sales: 5000},
	{Month: "Apr", Sales: 4500},
	{Month: "May", Sales: 6000},
	{Month: "Jun", Sales: 5500},
}

var seedCategoryShare = []CategoryShare{
	{Label: "Electronics", Value: 35},
	{Label: "Clothing", Value: 25},
	{Label: "Home", Value: 20},
	{Label: "Sports", Value: 12},
	{Label: "Other", Value: 8},
}
