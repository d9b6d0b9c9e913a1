package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pharmamart/backend/internal/core/domain"
)

// pageFromQuery reads pagination from the query string; the service
// clamps values and whitelists sort fields.
func pageFromQuery(ctx *gin.Context) domain.Page {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	offset, _ := strconv.Atoi(ctx.Query("offset"))

	return domain.Page{
		Limit:     limit,
		Offset:    offset,
		SortBy:    ctx.Query("sort_by"),
		SortOrder: ctx.Query("sort_order"),
	}
}
