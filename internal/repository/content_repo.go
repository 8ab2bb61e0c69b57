package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijrafr/expat-services-api/internal/model"
)

// ContentRepository serves the read-only portal content: destination guides
// and job listings.
type ContentRepository struct {
	pool *pgxpool.Pool
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

func (r *ContentRepository) ListDestinations(ctx context.Context) ([]model.Destination, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, COALESCE(country_id, ''), name, region, summary, cost_of_living, highlights
		FROM destinations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var destinations []model.Destination
	for rows.Next() {
		var d model.Destination
		if err := rows.Scan(&d.ID, &d.CountryID, &d.Name, &d.Region, &d.Summary,
			&d.CostOfLiving, &d.Highlights); err != nil {
			return nil, err
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

func (r *ContentRepository) ListJobs(ctx context.Context, countryID string, limit, offset int) ([]model.Job, int, error) {
	where := ""
	args := []any{}
	if countryID != "" {
		where = ` WHERE country_id = $1`
		args = append(args, countryID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	n := len(args)
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, company, location, COALESCE(country_id, ''), contract_type, salary_range, description, posted_at
		FROM jobs`+where+` ORDER BY posted_at DESC LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.CountryID,
			&j.ContractType, &j.SalaryRange, &j.Description, &j.PostedAt); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}
