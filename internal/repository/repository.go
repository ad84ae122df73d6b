// Package repository declares the persistence contracts. Implementations
// return sql.ErrNoRows for missing rows and ErrDuplicate for unique-key
// collisions; they contain no business rules.
package repository

import "errors"

// ErrDuplicate signals a unique constraint violation.
var ErrDuplicate = errors.New("duplicate key")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
