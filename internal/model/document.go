package model

import "time"

// Document is one archived PDF. Category, creator name and the SPD detail
// are populated by the repository joins; they are not written back.
type Document struct {
	ID            string       `json:"id"`
	FilePath      string       `json:"file_path"`
	FileName      string       `json:"file_name"`
	FileSize      int64        `json:"file_size"`
	PageCount     int          `json:"page_count"`
	DocumentDate  time.Time    `json:"document_date"`
	CategoryID    int64        `json:"category_id"`
	Category      Category     `json:"category"`
	CreatedBy     string       `json:"created_by"`
	CreatedByName string       `json:"created_by_name"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Version       int          `json:"version"`
	IsDeleted     bool         `json:"is_deleted"`
	DeletedAt     *time.Time   `json:"deleted_at,omitempty"`
	SPD           *SPDDocument `json:"spd,omitempty"`
}

// IsSPD reports whether the document is filed under the SPD tree.
func (d *Document) IsSPD() bool {
	return d.Category.IsSPD()
}
