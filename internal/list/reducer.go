package list

import (
	"strings"
	"time"
	"unicode/utf8"
)

// The reducer functions compute the next collection from the current one.
// They never touch storage and never modify their input.

func appendItem(items []Item, it Item) []Item {
	next := make([]Item, 0, len(items)+1)
	next = append(next, items...)
	return append(next, it)
}

// replaceItem sets title and subtitle of the entry with id and stamps
// updatedAt. updatedAt is clamped to createdAt so it never precedes it.
// The collection is returned unchanged (as a copy) when id is absent.
func replaceItem(items []Item, in UpdateInput, now time.Time) ([]Item, bool) {
	next := make([]Item, len(items))
	copy(next, items)
	for i := range next {
		if next[i].ID != in.ID {
			continue
		}
		stamp := now
		if stamp.Before(next[i].CreatedAt) {
			stamp = next[i].CreatedAt
		}
		next[i].Title = validText(in.Title)
		next[i].Subtitle = validText(in.Subtitle)
		next[i].UpdatedAt = &stamp
		return next, true
	}
	return next, false
}

// validText replaces each invalid UTF-8 byte with U+FFFD, as encoding/json
// does when it stores the text.
func validText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func removeItem(items []Item, id string) []Item {
	next := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	return next
}

func containsID(items []Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
