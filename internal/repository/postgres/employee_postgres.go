package postgres

import (
	"context"
	"database/sql"

	"arsip/internal/database"
	"arsip/internal/model"
	"arsip/internal/repository"
)

type EmployeePostgres struct {
	db *sql.DB
}

func NewEmployeePostgres(db *sql.DB) *EmployeePostgres {
	return &EmployeePostgres{db: db}
}

var _ repository.EmployeeRepository = (*EmployeePostgres)(nil)

const employeeSelect = `
	SELECT e.id, e.nip, e.name, e.position, e.department, e.is_active, e.created_at, e.updated_at,
	       (SELECT COUNT(*) FROM spd_documents s JOIN documents d ON d.id = s.document_id
	        WHERE s.employee_id = e.id AND d.is_deleted = false)
	FROM employees e`

func scanEmployee(row rowScanner) (*model.Employee, error) {
	var e model.Employee
	if err := row.Scan(&e.ID, &e.NIP, &e.Name, &e.Position, &e.Department, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt, &e.SPDCount); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeePostgres) Create(ctx context.Context, e *model.Employee) error {
	const q = `
		INSERT INTO employees (nip, name, position, department, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, e.NIP, e.Name, e.Position, e.Department, e.IsActive).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return mapWriteErr(err)
}

func (r *EmployeePostgres) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	return scanEmployee(database.Conn(ctx, r.db).QueryRowContext(ctx, employeeSelect+` WHERE e.id = $1`, id))
}

func (r *EmployeePostgres) List(ctx context.Context, f repository.EmployeeFilter) ([]model.Employee, error) {
	b := &filterBuilder{}
	if !f.IncludeInactive {
		b.add("e.is_active = true")
	}
	if f.Search != "" {
		pat := containsPattern(f.Search)
		b.add("(e.name ILIKE ? OR e.nip ILIKE ?)", pat, pat)
	}
	if f.Department != "" {
		b.add("e.department ILIKE ?", containsPattern(f.Department))
	}
	if f.Position != "" {
		b.add("e.position ILIKE ?", containsPattern(f.Position))
	}

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, employeeSelect+b.where()+` ORDER BY e.name`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EmployeePostgres) Update(ctx context.Context, e *model.Employee) error {
	const q = `
		UPDATE employees
		SET nip = $2, name = $3, position = $4, department = $5, is_active = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, e.ID, e.NIP, e.Name, e.Position, e.Department, e.IsActive).
		Scan(&e.UpdatedAt)
	return mapWriteErr(err)
}

func (r *EmployeePostgres) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE employees SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *EmployeePostgres) Stats(ctx context.Context) (*model.EmployeeStats, error) {
	conn := database.Conn(ctx, r.db)
	var st model.EmployeeStats
	err := conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_active), COUNT(*) FILTER (WHERE NOT is_active)
		FROM employees`).Scan(&st.TotalActive, &st.TotalInactive)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT department, COUNT(*)
		FROM employees
		WHERE is_active AND department <> ''
		GROUP BY department
		ORDER BY COUNT(*) DESC, department`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	st.ByDepartment = make([]model.DepartmentCount, 0)
	for rows.Next() {
		var dc model.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		st.ByDepartment = append(st.ByDepartment, dc)
	}
	return &st, rows.Err()
}
