package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijrafr/expat-services-api/internal/model"
)

type AssistanceRepository struct {
	pool *pgxpool.Pool
}

func NewAssistanceRepository(pool *pgxpool.Pool) *AssistanceRepository {
	return &AssistanceRepository{pool: pool}
}

const requestColumns = `id, client_name, client_email, client_phone, country_id, service_code,
	status, priority, assigned_to, created_at, updated_at`

func (r *AssistanceRepository) Insert(ctx context.Context, req *model.AssistanceRequest) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assistance_requests (client_name, client_email, client_phone, country_id, service_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, priority, created_at, updated_at`,
		req.ClientName, req.ClientEmail, req.ClientPhone, req.CountryID, req.ServiceCode,
	).Scan(&req.ID, &req.Status, &req.Priority, &req.CreatedAt, &req.UpdatedAt)
}

func (r *AssistanceRepository) List(ctx context.Context, status string, limit, offset int) ([]model.AssistanceRequest, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assistance_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + requestColumns + ` FROM assistance_requests` + where + ` ORDER BY created_at DESC`
	if status != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []model.AssistanceRequest
	for rows.Next() {
		var req model.AssistanceRequest
		if err := rows.Scan(&req.ID, &req.ClientName, &req.ClientEmail, &req.ClientPhone,
			&req.CountryID, &req.ServiceCode, &req.Status, &req.Priority, &req.AssignedTo,
			&req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

func (r *AssistanceRepository) FindByID(ctx context.Context, id string) (*model.AssistanceRequest, error) {
	req := &model.AssistanceRequest{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM assistance_requests WHERE id = $1`, id).
		Scan(&req.ID, &req.ClientName, &req.ClientEmail, &req.ClientPhone,
			&req.CountryID, &req.ServiceCode, &req.Status, &req.Priority, &req.AssignedTo,
			&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *AssistanceRepository) Update(ctx context.Context, id, status, priority, assignedTo string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE assistance_requests
		SET status = COALESCE(NULLIF($1, ''), status),
		    priority = COALESCE(NULLIF($2, ''), priority),
		    assigned_to = COALESCE(NULLIF($3, ''), assigned_to),
		    updated_at = $4
		WHERE id = $5`,
		status, priority, assignedTo, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *AssistanceRepository) AddDocument(ctx context.Context, doc *model.Document) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO documents (request_id, name, doc_type) VALUES ($1, $2, $3)
		RETURNING id, status, uploaded_at`,
		doc.RequestID, doc.Name, doc.DocType,
	).Scan(&doc.ID, &doc.Status, &doc.UploadedAt)
}

func (r *AssistanceRepository) ListDocuments(ctx context.Context, requestID string) ([]model.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, request_id, name, doc_type, status, review_notes, reviewed_by, reviewed_at, uploaded_at
		FROM documents WHERE request_id = $1 ORDER BY uploaded_at`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.RequestID, &d.Name, &d.DocType, &d.Status,
			&d.ReviewNotes, &d.ReviewedBy, &d.ReviewedAt, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *AssistanceRepository) ReviewDocument(ctx context.Context, docID, status, notes, reviewer string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $1, review_notes = $2, reviewed_by = $3, reviewed_at = $4
		WHERE id = $5`,
		status, notes, reviewer, time.Now().UTC(), docID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *AssistanceRepository) AddNote(ctx context.Context, note *model.AdminNote) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO admin_notes (request_id, content, note_type, created_by) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		note.RequestID, note.Content, note.NoteType, note.CreatedBy,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *AssistanceRepository) ListNotes(ctx context.Context, requestID string) ([]model.AdminNote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, request_id, content, note_type, created_by, created_at
		FROM admin_notes WHERE request_id = $1 ORDER BY created_at`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.AdminNote
	for rows.Next() {
		var n model.AdminNote
		if err := rows.Scan(&n.ID, &n.RequestID, &n.Content, &n.NoteType, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
