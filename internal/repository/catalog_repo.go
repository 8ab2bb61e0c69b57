package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijrafr/expat-services-api/internal/model"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, flag, currency, exchange_rate, average_time, urgent_available, online_available
		FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var countries []model.Country
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Flag, &c.Currency, &c.ExchangeRate,
			&c.AverageTime, &c.UrgentAvailable, &c.OnlineAvailable); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (r *CatalogRepository) FindCountry(ctx context.Context, id string) (*model.Country, error) {
	c := &model.Country{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, flag, currency, exchange_rate, average_time, urgent_available, online_available
		FROM countries WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Flag, &c.Currency, &c.ExchangeRate,
			&c.AverageTime, &c.UrgentAvailable, &c.OnlineAvailable)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CatalogRepository) ListServices(ctx context.Context, countryID, category string) ([]model.ServiceOption, error) {
	query := `SELECT id, country_id, code, name, description, price, duration, category, requirements, popular
		FROM services WHERE country_id = $1`
	args := []any{countryID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY category, price DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanServices(rows)
}

// ServicesByCodes resolves a selection against the country's catalog; codes
// with no catalog row are simply absent from the result.
func (r *CatalogRepository) ServicesByCodes(ctx context.Context, countryID string, codes []string) (map[string]model.ServiceOption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, country_id, code, name, description, price, duration, category, requirements, popular
		FROM services WHERE country_id = $1 AND code = ANY($2)`, countryID, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services, err := scanServices(rows)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]model.ServiceOption, len(services))
	for _, s := range services {
		byCode[s.Code] = s
	}
	return byCode, nil
}

func scanServices(rows pgx.Rows) ([]model.ServiceOption, error) {
	var services []model.ServiceOption
	for rows.Next() {
		var s model.ServiceOption
		if err := rows.Scan(&s.ID, &s.CountryID, &s.Code, &s.Name, &s.Description,
			&s.Price, &s.Duration, &s.Category, &s.Requirements, &s.Popular); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
