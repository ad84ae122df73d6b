package postgres

import (
	"context"
	"database/sql"

	"arsip/internal/database"
	"arsip/internal/model"
	"arsip/internal/repository"
)

type SPDPostgres struct {
	db *sql.DB
}

func NewSPDPostgres(db *sql.DB) *SPDPostgres {
	return &SPDPostgres{db: db}
}

var _ repository.SPDRepository = (*SPDPostgres)(nil)

func (r *SPDPostgres) Create(ctx context.Context, spd *model.SPDDocument) error {
	const q = `
		INSERT INTO spd_documents (document_id, employee_id, destination, destination_other, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q,
		spd.DocumentID,
		spd.EmployeeID,
		spd.Destination,
		spd.DestinationOther,
		spd.StartDate,
		spd.EndDate,
	).Scan(&spd.CreatedAt)
	return mapWriteErr(err)
}

func (r *SPDPostgres) Update(ctx context.Context, spd *model.SPDDocument) error {
	const q = `
		UPDATE spd_documents
		SET employee_id = $2, destination = $3, destination_other = $4, start_date = $5, end_date = $6
		WHERE document_id = $1
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q,
		spd.DocumentID,
		spd.EmployeeID,
		spd.Destination,
		spd.DestinationOther,
		spd.StartDate,
		spd.EndDate,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
