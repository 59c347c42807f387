// Package list holds the persisted list: the Gateway that owns the durable
// representation of the collection and the Store that mediates every change to it.
package list

import "time"

// Item is a single list entry.
type Item struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CreateInput is the payload for creating a new item. The store does not
// validate it; callers run the validate tags before calling Store.Create.
type CreateInput struct {
	Title    string `json:"title" validate:"notblank,max=255"`
	Subtitle string `json:"subtitle" validate:"max=1024"`
}

// UpdateInput is the payload for updating an existing item.
type UpdateInput struct {
	ID       string `json:"-" validate:"required"`
	Title    string `json:"title" validate:"notblank,max=255"`
	Subtitle string `json:"subtitle" validate:"max=1024"`
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

func (it Item) clone() Item {
	if it.UpdatedAt != nil {
		t := *it.UpdatedAt
		it.UpdatedAt = &t
	}
	return it
}
