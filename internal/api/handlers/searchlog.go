package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daruyab/internal/api/dto"
	"daruyab/internal/api/filters"
	"daruyab/internal/database/models"
)

// SearchLogHandler exposes inventory search logs read-only, newest first.
type SearchLogHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSearchLogHandler(db *gorm.DB, logger *zap.Logger) *SearchLogHandler {
	return &SearchLogHandler{db: db, logger: logger}
}

func (h *SearchLogHandler) List(c *gin.Context) {
	filter, err := filters.ParseSearchLogFilter(c.Request.URL.Query())
	if err != nil {
		filterError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		filterError(c, err)
		return
	}

	q := filter.Apply(h.db).Order("inventory_search_logs.timestamp DESC")
	q, count, err := paginate(q, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	var logs []models.InventorySearchLog
	if err := q.Preload("User").Find(&logs).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	results := make([]dto.SearchLogResponse, 0, len(logs))
	for _, l := range logs {
		results = append(results, dto.NewSearchLogResponse(l))
	}
	c.JSON(http.StatusOK, listEnvelope(count, results))
}

func (h *SearchLogHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var l models.InventorySearchLog
	if err := h.db.Preload("User").First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSearchLogResponse(l))
}
