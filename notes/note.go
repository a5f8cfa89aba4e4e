package notes

import (
	"encoding/json"
	"strings"
	"time"
)

// Note is a server owned record. Id and timestamps are always server assigned.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnmarshalJSON accepts "_id" as an alias for "id".
func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Note(aux.plain)
	if n.ID == "" {
		n.ID = aux.MongoID
	}
	return nil
}

// Draft is the user typed content sent on create and update.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Complete reports whether both fields have non whitespace content.
func (d Draft) Complete() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.Content) != ""
}
