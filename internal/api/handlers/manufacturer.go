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

type ManufacturerHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewManufacturerHandler(db *gorm.DB, logger *zap.Logger) *ManufacturerHandler {
	return &ManufacturerHandler{db: db, logger: logger}
}

func (h *ManufacturerHandler) List(c *gin.Context) {
	filter, err := filters.ParseManufacturerFilter(c.Request.URL.Query())
	if err != nil {
		filterError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		filterError(c, err)
		return
	}

	q := filter.Apply(h.db).Order("manufacturers.id")
	q, count, err := paginate(q, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	var manufacturers []models.Manufacturer
	if err := q.Find(&manufacturers).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	results := make([]dto.ManufacturerResponse, 0, len(manufacturers))
	for _, m := range manufacturers {
		results = append(results, dto.NewManufacturerResponse(m))
	}
	c.JSON(http.StatusOK, listEnvelope(count, results))
}

func (h *ManufacturerHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var m models.Manufacturer
	if err := h.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewManufacturerResponse(m))
}

func missingManufacturerField(in dto.ManufacturerInput) string {
	if in.Name == nil || *in.Name == "" {
		return "name"
	}
	if in.Country == nil || *in.Country == "" {
		return "country"
	}
	return ""
}

func (h *ManufacturerHandler) Create(c *gin.Context) {
	var input dto.ManufacturerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if field := missingManufacturerField(input); field != "" {
		fieldError(c, field, "This field is required.")
		return
	}

	m := models.Manufacturer{Name: *input.Name, Country: *input.Country}
	if err := h.db.Create(&m).Error; err != nil {
		writeError(c, h.logger, err, "name")
		return
	}
	c.JSON(http.StatusCreated, dto.NewManufacturerResponse(m))
}

// Update is the full-shape replacement; PartialUpdate applies only the
// fields present.
func (h *ManufacturerHandler) Update(c *gin.Context)        { h.update(c, false) }
func (h *ManufacturerHandler) PartialUpdate(c *gin.Context) { h.update(c, true) }

func (h *ManufacturerHandler) update(c *gin.Context, partial bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var m models.Manufacturer
	if err := h.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	var input dto.ManufacturerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if !partial {
		if field := missingManufacturerField(input); field != "" {
			fieldError(c, field, "This field is required.")
			return
		}
	}
	if input.Name != nil {
		m.Name = *input.Name
	}
	if input.Country != nil {
		m.Country = *input.Country
	}

	if err := h.db.Save(&m).Error; err != nil {
		writeError(c, h.logger, err, "name")
		return
	}
	c.JSON(http.StatusOK, dto.NewManufacturerResponse(m))
}

func (h *ManufacturerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var m models.Manufacturer
	if err := h.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if err := h.db.Delete(&m).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
