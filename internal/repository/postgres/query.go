package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"arsip/internal/database"
	"arsip/internal/repository"
)

// filterBuilder accumulates WHERE conditions. Each "?" in a condition is
// bound to the next argument as $n.
type filterBuilder struct {
	conds []string
	args  []any
}

func (b *filterBuilder) add(cond string, args ...any) {
	for _, a := range args {
		b.args = append(b.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conds = append(b.conds, cond)
}

func (b *filterBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// next returns the placeholder for one more trailing argument.
func (b *filterBuilder) next(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// mapWriteErr converts constraint errors to repository sentinels.
func mapWriteErr(err error) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

// expectOneRow turns a zero-row UPDATE/DELETE into sql.ErrNoRows.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
