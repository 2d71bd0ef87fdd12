package utils

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a resolved offset/limit pair, safe to hand to the database.
type Page struct {
	Offset int
	Limit  int
}

// ResolvePage applies defaults to the optional offset and limit of a list request.
// A missing or non-positive limit becomes DefaultPageSize and larger limits are
// capped at MaxPageSize. Negative offsets start at the first record.
func ResolvePage(offset, limit *int) Page {
	p := Page{Limit: DefaultPageSize}
	if offset != nil && *offset > 0 {
		p.Offset = *offset
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageSize)
	}
	return p
}

// ParsePaginationQuery reads the optional offset and limit query parameters.
// On a malformed value it writes a 400 response and reports false.
func ParsePaginationQuery(c *gin.Context) (offset *int, limit *int, ok bool) {
	if offset, ok = parseIntQuery(c, "offset"); !ok {
		return nil, nil, false
	}
	if limit, ok = parseIntQuery(c, "limit"); !ok {
		return nil, nil, false
	}
	return offset, limit, true
}

func parseIntQuery(c *gin.Context, name string) (*int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		WriteErrorCode(c, http.StatusBadRequest, CodeInvalidArgument, "invalid '"+name+"' query parameter, must be a non-negative integer")
		return nil, false
	}
	return &v, true
}
