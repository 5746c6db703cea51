package state

import (
	"strings"

	"github.com/lifequest/backend/pkg/utils"
)

// Pure list reducers shared by the containers.

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i := range items {
		if idOf(items[i]) == id {
			return i
		}
	}
	return -1
}

func prepend[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}

func replaced[T any](items []T, id string, idOf func(T) string, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	if i := indexOf(out, id, idOf); i >= 0 {
		out[i] = v
	}
	return out
}

func removed[T any](items []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func cloned[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

const maxTitleLen = 200

// cleanTitle strips markup and whitespace and rejects empty titles.
func cleanTitle(title string) (string, error) {
	t := strings.TrimSpace(utils.StripHTML(title))
	if t == "" {
		return "", invalid("title", "is required")
	}
	return utils.TruncateString(t, maxTitleLen), nil
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(utils.StripHTML(*s))
	if t == "" {
		return nil
	}
	return &t
}
