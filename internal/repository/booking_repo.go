package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijrafr/expat-services-api/internal/model"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Insert relies on the (booking_date, slot) unique constraint to reject
// double-booking; the unique violation maps to 409 upstream.
func (r *BookingRepository) Insert(ctx context.Context, b *model.Booking) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO bookings (booking_date, slot, topic, client_name, client_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at`,
		b.BookingDate, b.Slot, b.Topic, b.ClientName, b.ClientEmail,
	).Scan(&b.ID, &b.Status, &b.CreatedAt)
}

func (r *BookingRepository) BusySlots(ctx context.Context, date string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT slot FROM bookings WHERE booking_date = $1 AND status = 'confirmed' ORDER BY slot`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
