// Package handlers implements the HTTP layer: one handler type per
// resource, each binding a gorm connection and a logger.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daruyab/internal/api/filters"
)

const (
	defaultPageSize = 5
	maxPageSize     = 100
)

// pageParams carries the pagination window of a list request. page=0 turns
// pagination off and returns the full result set.
type pageParams struct {
	Page     int
	PageSize int
}

func (p pageParams) enabled() bool {
	return p.Page > 0
}

func parsePagination(c *gin.Context) (pageParams, error) {
	p := pageParams{Page: 1, PageSize: defaultPageSize}

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return p, &filters.ValidationError{Field: "page", Message: "Invalid page."}
		}
		p.Page = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return p, &filters.ValidationError{Field: "limit", Message: "Invalid page size."}
		}
		if v > maxPageSize {
			v = maxPageSize
		}
		p.PageSize = v
	}
	return p, nil
}

// paginate counts the full result set and narrows the query to the
// requested window. The caller still runs Find on the returned query.
func paginate(q *gorm.DB, p pageParams) (*gorm.DB, int64, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if p.enabled() {
		q = q.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
	}
	return q, count, nil
}

// listEnvelope is the uniform list response shape.
func listEnvelope(count int64, results any) gin.H {
	return gin.H{"count": count, "results": results}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return 0, false
	}
	return id, true
}

// fieldError renders a per-field validation failure.
func fieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{field: []string{message}})
}

// filterError maps a filter parse failure onto its query parameter.
func filterError(c *gin.Context, err error) {
	var verr *filters.ValidationError
	if errors.As(err, &verr) {
		fieldError(c, verr.Field, verr.Message)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

// writeError renders a persistence failure: duplicates become a per-field
// validation error, anything else a 500.
func writeError(c *gin.Context, logger *zap.Logger, err error, uniqueField string) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		fieldError(c, uniqueField, "This field must be unique.")
		return
	}
	logger.Error("database write failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
}

func serverError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
}
