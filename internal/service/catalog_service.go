package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/repository"
)

type CatalogService struct {
	catalog *repository.CatalogRepository
	content *repository.ContentRepository
}

func NewCatalogService(catalog *repository.CatalogRepository, content *repository.ContentRepository) *CatalogService {
	return &CatalogService{catalog: catalog, content: content}
}

func (s *CatalogService) Countries(ctx context.Context) ([]model.Country, error) {
	return s.catalog.ListCountries(ctx)
}

func (s *CatalogService) Country(ctx context.Context, id string) (*model.Country, []model.ServiceOption, error) {
	country, err := s.catalog.FindCountry(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrCountryNotFound
		}
		return nil, nil, err
	}

	services, err := s.catalog.ListServices(ctx, country.ID, "")
	if err != nil {
		return nil, nil, err
	}
	return country, services, nil
}

// Services returns the catalog for one country, optionally filtered by
// category. The country is checked first so an unknown id is a 404 rather
// than an empty list.
func (s *CatalogService) Services(ctx context.Context, countryID, category string) ([]model.ServiceOption, error) {
	country, err := s.catalog.FindCountry(ctx, countryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return s.catalog.ListServices(ctx, country.ID, category)
}

func (s *CatalogService) Destinations(ctx context.Context) ([]model.Destination, error) {
	return s.content.ListDestinations(ctx)
}

func (s *CatalogService) Jobs(ctx context.Context, countryID string, limit, offset int) ([]model.Job, int, error) {
	return s.content.ListJobs(ctx, countryID, limit, offset)
}
