package postgres

import (
	"context"
	"database/sql"

	"arsip/internal/database"
	"arsip/internal/model"
	"arsip/internal/repository"
)

type ActivityPostgres struct {
	db *sql.DB
}

func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

func (r *ActivityPostgres) Create(ctx context.Context, a *model.Activity) error {
	const q = `
		INSERT INTO document_activities (document_id, user_id, action_type, description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	var userID sql.NullString
	if a.UserID != nil {
		userID = sql.NullString{String: *a.UserID, Valid: true}
	}
	return database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		a.DocumentID,
		userID,
		string(a.Action),
		a.Description,
		nullString(a.IPAddress),
		a.UserAgent,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *ActivityPostgres) ListByDocument(ctx context.Context, documentID string, limit int) ([]model.Activity, error) {
	const q = `
		SELECT a.id, a.document_id, a.user_id, COALESCE(NULLIF(u.full_name, ''), u.username, ''),
		       a.action_type, a.description, COALESCE(a.ip_address, ''), a.user_agent, a.created_at
		FROM document_activities a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.document_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2
	`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, documentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Activity, 0)
	for rows.Next() {
		var (
			a      model.Activity
			userID sql.NullString
			action string
		)
		if err := rows.Scan(&a.ID, &a.DocumentID, &userID, &a.UserName, &action, &a.Description,
			&a.IPAddress, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := userID.String
			a.UserID = &v
		}
		a.Action = model.ActionType(action)
		a.ActionLabel = a.Action.Label()
		out = append(out, a)
	}
	return out, rows.Err()
}
