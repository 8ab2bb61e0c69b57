package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/repository"
)

var (
	ErrCountryNotFound = errors.New("country not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptySelection  = errors.New("selection resolves to no purchasable services")
)

type OrderService struct {
	catalog *repository.CatalogRepository
	orders  *repository.OrderRepository
}

func NewOrderService(catalog *repository.CatalogRepository, orders *repository.OrderRepository) *OrderService {
	return &OrderService{catalog: catalog, orders: orders}
}

// NewOrderReference issues the back-office reconciliation key. Generated
// server-side with a uniqueness constraint behind it; the old client-side
// prefix+timestamp scheme could collide across concurrently open orders.
func NewOrderReference() string {
	return "HJR-" + uuid.NewString()
}

func (s *OrderService) Quote(ctx context.Context, req *dto.QuoteRequest) (*dto.OrderSummary, error) {
	country, err := s.catalog.FindCountry(ctx, req.CountryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("find country: %w", err)
	}

	items, unknown, err := s.resolve(ctx, country.ID, req.ServiceCodes)
	if err != nil {
		return nil, err
	}

	summary := Summarize(items, country.Currency, country.Name)
	summary.UnknownCodes = unknown
	return &summary, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error) {
	country, err := s.catalog.FindCountry(ctx, req.CountryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("find country: %w", err)
	}

	items, _, err := s.resolve(ctx, country.ID, req.ServiceCodes)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}

	summary := Summarize(items, country.Currency, country.Name)

	order := &model.Order{
		Reference:   NewOrderReference(),
		CountryID:   country.ID,
		CountryName: country.Name,
		Currency:    country.Currency,
		Subtotal:    summary.Subtotal,
		Fees:        summary.Fees,
		Total:       summary.Total,
		Status:      model.OrderStatusPendingPayment,
		Items:       items,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, reference string) (*model.Order, error) {
	order, err := s.orders.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) resolve(ctx context.Context, countryID string, codes []string) ([]model.OrderItem, []string, error) {
	if len(codes) == 0 {
		return nil, nil, nil
	}

	byCode, err := s.catalog.ServicesByCodes(ctx, countryID, codes)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve services: %w", err)
	}

	items, unknown := ResolveSelection(byCode, codes)
	return items, unknown, nil
}
