package model

import "time"

// Employee is a traveller referenced by SPD documents.
type Employee struct {
	ID         int64     `json:"id"`
	NIP        string    `json:"nip"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	IsActive   bool      `json:"is_active"`
	SPDCount   int       `json:"spd_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EmployeeStats summarises the employee register.
type EmployeeStats struct {
	TotalActive   int               `json:"total_active"`
	TotalInactive int               `json:"total_inactive"`
	ByDepartment  []DepartmentCount `json:"by_department"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}
