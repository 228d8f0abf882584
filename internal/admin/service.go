package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// productLimit is how many catalog products the console loads at once.
const productLimit = 100

const recentOrderCount = 5

// OrderSource is backed by MockOrders or *orders.Repo.
type OrderSource interface {
	List(ctx context.Context, f orders.Filter) ([]orders.Order, error)
	Counts(ctx context.Context) (orders.Counts, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	UpdateStatus(ctx context.Context, id string, to orders.Status) (orders.Order, error)
}

// Catalog is the part of the catalog client the console reads.
type Catalog interface {
	FetchPage(ctx context.Context, q catalog.Query) (*catalog.Page, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

type Service struct {
	orders  OrderSource
	catalog Catalog
	log     logrus.FieldLogger
}

func NewService(src OrderSource, c Catalog, log logrus.FieldLogger) *Service {
	return &Service{orders: src, catalog: c, log: log}
}

type OrderList struct {
	Orders []orders.Order `json:"orders"`
	Counts orders.Counts  `json:"counts"`
}

// BadStatusError is returned for a status filter or target outside the known set.
type BadStatusError struct{ Status string }

func (e *BadStatusError) Error() string { return fmt.Sprintf("unknown order status %q", e.Status) }

// Orders lists orders for one status tab ("all" or "" for every order) narrowed by a
// search over id, customer and email. Counts always cover every order.
func (s *Service) Orders(ctx context.Context, status, search string) (OrderList, error) {
	st, ok := orders.ParseStatus(status)
	if !ok {
		return OrderList{}, &BadStatusError{Status: status}
	}
	list, err := s.orders.List(ctx, orders.Filter{Status: st, Search: search})
	if err != nil {
		return OrderList{}, fmt.Errorf("list orders: %w", err)
	}
	counts, err := s.orders.Counts(ctx)
	if err != nil {
		return OrderList{}, fmt.Errorf("count orders: %w", err)
	}
	return OrderList{Orders: list, Counts: counts}, nil
}

func (s *Service) Order(ctx context.Context, id string) (orders.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id, status string) (orders.Order, error) {
	st, ok := orders.ParseStatus(status)
	if !ok || st == "" {
		return orders.Order{}, &BadStatusError{Status: status}
	}
	o, err := s.orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return orders.Order{}, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "status": st}).Info("order status updated")
	return o, nil
}

func (s *Service) CancelOrder(ctx context.Context, id string) (orders.Order, error) {
	return s.UpdateOrderStatus(ctx, id, string(orders.StatusCancelled))
}

// Users filters the demo accounts by a case-insensitive substring of name or email.
func (s *Service) Users(search string) []User {
	q := strings.ToLower(strings.TrimSpace(search))
	out := []User{}
	for _, u := range seedUsers {
		if q == "" || strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

// Products loads the first catalog page and filters it by title or SKU.
func (s *Service) Products(ctx context.Context, search string) ([]catalog.Product, error) {
	page, err := s.catalog.FetchPage(ctx, catalog.Query{Limit: productLimit})
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(search))
	out := []catalog.Product{}
	for _, p := range page.Data {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]catalog.Category, error) {
	return s.catalog.Categories(ctx)
}

type Dashboard struct {
	Stats         []StatCard      `json:"stats"`
	RecentOrders  []orders.Order  `json:"recentOrders"`
	TopProducts   []TopProduct    `json:"topProducts"`
	Sales         []MonthlySales  `json:"sales"`
	CategoryShare []CategoryShare `json:"categoryShare"`
}

// Dashboard combines the demo figures with the newest orders from the order source and,
// when the catalog answers, the live product count.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	d := Dashboard{
		Stats:         append([]StatCard(nil), seedStats...),
		TopProducts:   seedTopProducts,
		Sales:         seedSales,
		CategoryShare: seedCategoryShare,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.orders.List(gctx, orders.Filter{})
		if err != nil {
			return fmt.Errorf("recent orders: %w", err)
		}
		if len(list) > recentOrderCount {
			list = list[:recentOrderCount]
		}
		d.RecentOrders = list
		return nil
	})
	var productTotal int
	g.Go(func() error {
		page, err := s.catalog.FetchPage(gctx, catalog.Query{Page: 1, Limit: 1})
		if err != nil {
			s.log.WithError(err).Warn("dashboard product count unavailable")
			return nil
		}
		productTotal = page.Total
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	if productTotal > 0 {
		d.Stats[len(d.Stats)-1].Value = strconv.Itoa(productTotal)
	}
	return d, nil
}
