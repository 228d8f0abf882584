package catalog

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// LowStockThreshold is the stock level under which a product is badged "Low Stock".
const LowStockThreshold = 10

// Product is a read-only snapshot as returned by the catalog API. BasePrice and
// AverageRating are decimal strings.
type Product struct {
	ID            string           `json:"id"`
	VendorID      string           `json:"vendorId"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	BasePrice     string           `json:"basePrice"`
	Currency      string           `json:"currency"`
	SKU           string           `json:"sku"`
	Status        Status           `json:"status"`
	CategoryID    string           `json:"categoryId"`
	Stock         int              `json:"stock"`
	AverageRating string           `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
	IsFeatured    bool             `json:"isFeatured"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Vendor        *Vendor          `json:"vendor,omitempty"`
	Category      *Category        `json:"category,omitempty"`
	Images        []ProductImage   `json:"images"`
	Variants      []ProductVariant `json:"variants,omitempty"`
}

// StockBadge is the informational badge shown for a product: "", "Low Stock" or "Out of Stock".
func (p Product) StockBadge() string {
	switch {
	case p.Stock <= 0:
		return "Out of Stock"
	case p.Stock < LowStockThreshold:
		return "Low Stock"
	default:
		return ""
	}
}

// StockLabel is the availability line of the product detail view.
func (p Product) StockLabel() string {
	switch {
	case p.Stock <= 0:
		return "Out of Stock"
	case p.Stock <= LowStockThreshold:
		return fmt.Sprintf("Only %d left", p.Stock)
	default:
		return "In Stock"
	}
}

type ProductImage struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	URL       string    `json:"url"`
	AltText   string    `json:"altText"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProductVariant struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"productId"`
	Name       string            `json:"name"`
	SKU        string            `json:"sku"`
	Price      string            `json:"price"`
	Stock      int               `json:"stock"`
	Attributes map[string]string `json:"attributes"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ParentID    *string   `json:"parentId"`
	Position    int       `json:"position"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Vendor struct {
	ID              string            `json:"id"`
	OwnerID         string            `json:"ownerId"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	LogoURL         *string           `json:"logoUrl"`
	Description     string            `json:"description"`
	CommissionRate  string            `json:"commissionRate"`
	Status          string            `json:"status"`
	BusinessEmail   string            `json:"businessEmail"`
	BusinessPhone   *string           `json:"businessPhone"`
	BusinessAddress map[string]string `json:"businessAddress"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Page is one page of the product listing. It replaces any previous page wholesale.
type Page struct {
	Data       []Product `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}
