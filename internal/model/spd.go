package model

import "time"

// SPDDocument holds the travel-order detail attached one-to-one to a
// Document in the spd category.
type SPDDocument struct {
	DocumentID       string    `json:"document_id"`
	EmployeeID       int64     `json:"employee_id"`
	EmployeeName     string    `json:"employee_name"`
	EmployeeNIP      string    `json:"employee_nip"`
	Destination      string    `json:"destination"`
	DestinationOther string    `json:"destination_other,omitempty"`
	DestinationLabel string    `json:"destination_display"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	CreatedAt        time.Time `json:"created_at"`
}

// DurationDays counts both the start and the end day.
func (s *SPDDocument) DurationDays() int {
	return int(s.EndDate.Sub(s.StartDate).Hours()/24) + 1
}
