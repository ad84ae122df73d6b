package model

import "time"

const (
	CategorySlugSPD       = "spd"
	CategorySlugBelanjaan = "belanjaan"
)

// Category is a node of the document category tree. FullPath is the slash
// joined slug chain from the root and doubles as the storage folder.
type Category struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	ParentID      *int64    `json:"parent,omitempty"`
	ParentName    string    `json:"parent_name,omitempty"`
	ParentSlug    string    `json:"-"`
	Icon          string    `json:"icon"`
	FullPath      string    `json:"full_path"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c Category) HasParent() bool {
	return c.ParentID != nil
}

// IsSPD is true for the spd root and any of its children.
func (c Category) IsSPD() bool {
	return c.Slug == CategorySlugSPD || c.ParentSlug == CategorySlugSPD
}
