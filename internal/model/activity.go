package model

import "time"

type ActionType string

const (
	ActionCreate   ActionType = "create"
	ActionView     ActionType = "view"
	ActionDownload ActionType = "download"
	ActionUpdate   ActionType = "update"
	ActionDelete   ActionType = "delete"
)

var actionLabels = map[ActionType]string{
	ActionCreate:   "Dibuat",
	ActionView:     "Dilihat",
	ActionDownload: "Diunduh",
	ActionUpdate:   "Diperbarui",
	ActionDelete:   "Dihapus",
}

// Label returns the Indonesian display label, or the raw value when unknown.
func (a ActionType) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

func (a ActionType) Valid() bool {
	_, ok := actionLabels[a]
	return ok
}

// Activity is an append-only audit entry for a document.
type Activity struct {
	ID          int64      `json:"id"`
	DocumentID  string     `json:"document_id"`
	UserID      *string    `json:"user_id,omitempty"`
	UserName    string     `json:"user_name,omitempty"`
	Action      ActionType `json:"action_type"`
	ActionLabel string     `json:"action_label"`
	Description string     `json:"description"`
	IPAddress   string     `json:"ip_address,omitempty"`
	UserAgent   string     `json:"user_agent,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
