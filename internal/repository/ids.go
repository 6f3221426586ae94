package repository

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newID returns an opaque identifier with an entity prefix, e.g.
// "bien-4f2a9c01d3e8b7a6". IDs are assigned by the store, never by the
// caller.
func newID(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + hex.EncodeToString(buf)
}

// paginate slices items down to the requested page. Limit <= 0 disables
// pagination and returns everything.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// pageCount returns the number of pages for a total at the given limit.
func pageCount(total, limit int) int {
	if limit <= 0 {
		if total > 0 {
			return 1
		}
		return 0
	}
	return (total + limit - 1) / limit
}
