// utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageRequest holds the page/size query parameters. Pages are zero-based to
// match the admin dashboard's expectations.
type PageRequest struct {
	Page int
	Size int
}

// ParsePageRequest reads page/size from the query string, clamping bad input
// instead of rejecting it.
func ParsePageRequest(c *fiber.Ctx) PageRequest {
	page, err := strconv.Atoi(c.Query("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.Query("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return PageRequest{Page: page, Size: size}
}

// Scope applies the page window to a gorm query.
func (p PageRequest) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Page * p.Size).Limit(p.Size)
}

// PagePayload wraps a result slice with paging metadata.
func PagePayload(content interface{}, p PageRequest, totalElements int64) fiber.Map {
	totalPages := totalElements / int64(p.Size)
	if totalElements%int64(p.Size) != 0 {
		totalPages++
	}
	return fiber.Map{
		"content":        content,
		"page":           p.Page,
		"size":           p.Size,
		"total_elements": totalElements,
		"total_pages":    totalPages,
	}
}
