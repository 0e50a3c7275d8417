package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daruyab/internal/api/dto"
	"daruyab/internal/api/filters"
	"daruyab/internal/api/middleware"
	"daruyab/internal/database/models"
)

const dateLayout = "2006-01-02"

type InventoryHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewInventoryHandler(db *gorm.DB, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{db: db, logger: logger}
}

// List runs the hierarchical inventory search. Every search with at least
// one query parameter is recorded; a failed log write never fails the
// search.
func (h *InventoryHandler) List(c *gin.Context) {
	filter, err := filters.ParseInventoryFilter(c.Request.URL.Query())
	if err != nil {
		filterError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		filterError(c, err)
		return
	}

	q := filter.Apply(h.db).Order("pharmacy_inventories.id")
	q, count, err := paginate(q, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	var items []models.PharmacyInventory
	err = q.
		Preload("Drug.Manufacturer").
		Preload("Pharmacy.Location").
		Find(&items).Error
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	results := make([]dto.InventoryResponse, 0, len(items))
	for _, item := range items {
		results = append(results, dto.NewInventoryResponse(item))
	}
	c.JSON(http.StatusOK, listEnvelope(count, results))

	h.recordSearch(c)
}

// recordSearch persists the raw parameters of a non-empty search.
func (h *InventoryHandler) recordSearch(c *gin.Context) {
	query := c.Request.URL.Query()
	if len(query) == 0 {
		return
	}

	var userID *int64
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}
	entry := models.InventorySearchLog{
		UserID:      userID,
		QueryParams: middleware.QueryParamsJSON(query),
		IPAddress:   middleware.ClientIP(c.Request),
	}
	if err := h.db.Create(&entry).Error; err != nil {
		h.logger.Error("failed to record inventory search", zap.Error(err))
	}
}

func (h *InventoryHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var item models.PharmacyInventory
	err := h.db.
		Preload("Drug.Manufacturer").
		Preload("Pharmacy.Location").
		First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewInventoryResponse(item))
}

func (h *InventoryHandler) resolveDrug(c *gin.Context, id int64) bool {
	var d models.Drug
	if err := h.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldError(c, "drug", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			return false
		}
		serverError(c, h.logger, err)
		return false
	}
	return true
}

func (h *InventoryHandler) resolvePharmacy(c *gin.Context, id int64) bool {
	var p models.Pharmacy
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldError(c, "pharmacy", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			return false
		}
		serverError(c, h.logger, err)
		return false
	}
	return true
}

func parseExpireDate(c *gin.Context, raw string) (time.Time, bool) {
	v, err := time.Parse(dateLayout, raw)
	if err != nil {
		fieldError(c, "expire_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		return time.Time{}, false
	}
	return v, true
}

func missingInventoryField(in dto.InventoryInput) string {
	switch {
	case in.Drug == nil:
		return "drug"
	case in.Pharmacy == nil:
		return "pharmacy"
	case in.ExpireDate == nil:
		return "expire_date"
	case in.Quantity == nil:
		return "quantity"
	case in.Price == nil:
		return "price"
	}
	return ""
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var input dto.InventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if field := missingInventoryField(input); field != "" {
		fieldError(c, field, "This field is required.")
		return
	}
	if *input.Quantity < 0 {
		fieldError(c, "quantity", "Ensure this value is greater than or equal to 0.")
		return
	}
	if !h.resolveDrug(c, *input.Drug) || !h.resolvePharmacy(c, *input.Pharmacy) {
		return
	}
	expire, ok := parseExpireDate(c, *input.ExpireDate)
	if !ok {
		return
	}

	item := models.PharmacyInventory{
		DrugID:      *input.Drug,
		PharmacyID:  *input.Pharmacy,
		BatchNumber: input.BatchNumber,
		ExpireDate:  expire,
		Quantity:    *input.Quantity,
		Price:       *input.Price,
	}
	if err := h.db.Create(&item).Error; err != nil {
		writeError(c, h.logger, err, "batch_number")
		return
	}
	c.JSON(http.StatusCreated, dto.NewInventoryFlatResponse(item))
}

// Update is the full-shape replacement; PartialUpdate applies only the
// fields present.
func (h *InventoryHandler) Update(c *gin.Context)        { h.update(c, false) }
func (h *InventoryHandler) PartialUpdate(c *gin.Context) { h.update(c, true) }

func (h *InventoryHandler) update(c *gin.Context, partial bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var item models.PharmacyInventory
	if err := h.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	var input dto.InventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if !partial {
		if field := missingInventoryField(input); field != "" {
			fieldError(c, field, "This field is required.")
			return
		}
	}
	if input.Drug != nil {
		if !h.resolveDrug(c, *input.Drug) {
			return
		}
		item.DrugID = *input.Drug
	}
	if input.Pharmacy != nil {
		if !h.resolvePharmacy(c, *input.Pharmacy) {
			return
		}
		item.PharmacyID = *input.Pharmacy
	}
	if input.BatchNumber != nil {
		item.BatchNumber = input.BatchNumber
	}
	if input.ExpireDate != nil {
		expire, ok := parseExpireDate(c, *input.ExpireDate)
		if !ok {
			return
		}
		item.ExpireDate = expire
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			fieldError(c, "quantity", "Ensure this value is greater than or equal to 0.")
			return
		}
		item.Quantity = *input.Quantity
	}
	if input.Price != nil {
		item.Price = *input.Price
	}

	if err := h.db.Save(&item).Error; err != nil {
		writeError(c, h.logger, err, "batch_number")
		return
	}
	c.JSON(http.StatusOK, dto.NewInventoryFlatResponse(item))
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var item models.PharmacyInventory
	if err := h.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if err := h.db.Delete(&item).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
