package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daruyab/internal/api/dto"
	"daruyab/internal/api/filters"
	"daruyab/internal/database/models"
)

type PharmacyHandler struct {
	db        *gorm.DB
	logger    *zap.Logger
	mediaRoot string
}

func NewPharmacyHandler(db *gorm.DB, logger *zap.Logger, mediaRoot string) *PharmacyHandler {
	return &PharmacyHandler{db: db, logger: logger, mediaRoot: mediaRoot}
}

func (h *PharmacyHandler) List(c *gin.Context) {
	filter, err := filters.ParsePharmacyFilter(c.Request.URL.Query())
	if err != nil {
		filterError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		filterError(c, err)
		return
	}

	q := filter.Apply(h.db).Order("pharmacies.id")
	q, count, err := paginate(q, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	var pharmacies []models.Pharmacy
	if err := q.Preload("Location").Find(&pharmacies).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	results := make([]dto.PharmacyResponse, 0, len(pharmacies))
	for _, p := range pharmacies {
		results = append(results, dto.NewPharmacyResponse(p))
	}
	c.JSON(http.StatusOK, listEnvelope(count, results))
}

func (h *PharmacyHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Pharmacy
	if err := h.db.Preload("Location").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPharmacyResponse(p))
}

func (h *PharmacyHandler) resolveLocation(c *gin.Context, id int64) bool {
	var loc models.Location
	if err := h.db.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldError(c, "location", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			return false
		}
		serverError(c, h.logger, err)
		return false
	}
	return true
}

func missingPharmacyField(in dto.PharmacyInput) string {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", in.Name},
		{"license_number", in.LicenseNumber},
		{"owner_full_name", in.OwnerFullName},
		{"owner_phone_number", in.OwnerPhoneNumber},
		{"pharmacist_full_name", in.PharmacistFullName},
		{"pharmacist_phone_number", in.PharmacistPhoneNumber},
		{"phone_number", in.PhoneNumber},
		{"address", in.Address},
	} {
		if f.value == nil || *f.value == "" {
			return f.name
		}
	}
	if in.Location == nil {
		return "location"
	}
	return ""
}

func (h *PharmacyHandler) Create(c *gin.Context) {
	var input dto.PharmacyInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if field := missingPharmacyField(input); field != "" {
		fieldError(c, field, "This field is required.")
		return
	}
	if !h.resolveLocation(c, *input.Location) {
		return
	}

	p := models.Pharmacy{
		Name:                  *input.Name,
		LicenseNumber:         *input.LicenseNumber,
		OwnerFullName:         *input.OwnerFullName,
		OwnerPhoneNumber:      *input.OwnerPhoneNumber,
		PharmacistFullName:    *input.PharmacistFullName,
		PharmacistPhoneNumber: *input.PharmacistPhoneNumber,
		PhoneNumber:           *input.PhoneNumber,
		Address:               *input.Address,
		LocationID:            *input.Location,
	}
	if input.Is24Hours != nil {
		p.Is24Hours = *input.Is24Hours
	}

	if file, err := c.FormFile("image"); err == nil {
		path, err := saveImage(c, file, h.mediaRoot, "pharmacy_images")
		if err != nil {
			fieldError(c, "image", err.Error())
			return
		}
		p.Image = &path
	}

	if err := h.db.Create(&p).Error; err != nil {
		writeError(c, h.logger, err, "license_number")
		return
	}
	if err := h.db.Preload("Location").First(&p, p.ID).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewPharmacyResponse(p))
}

// Update is the full-shape replacement; PartialUpdate applies only the
// fields present.
func (h *PharmacyHandler) Update(c *gin.Context)        { h.update(c, false) }
func (h *PharmacyHandler) PartialUpdate(c *gin.Context) { h.update(c, true) }

func (h *PharmacyHandler) update(c *gin.Context, partial bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Pharmacy
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	var input dto.PharmacyInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if !partial {
		if field := missingPharmacyField(input); field != "" {
			fieldError(c, field, "This field is required.")
			return
		}
	}
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.LicenseNumber != nil {
		p.LicenseNumber = *input.LicenseNumber
	}
	if input.OwnerFullName != nil {
		p.OwnerFullName = *input.OwnerFullName
	}
	if input.OwnerPhoneNumber != nil {
		p.OwnerPhoneNumber = *input.OwnerPhoneNumber
	}
	if input.PharmacistFullName != nil {
		p.PharmacistFullName = *input.PharmacistFullName
	}
	if input.PharmacistPhoneNumber != nil {
		p.PharmacistPhoneNumber = *input.PharmacistPhoneNumber
	}
	if input.PhoneNumber != nil {
		p.PhoneNumber = *input.PhoneNumber
	}
	if input.Is24Hours != nil {
		p.Is24Hours = *input.Is24Hours
	}
	if input.Address != nil {
		p.Address = *input.Address
	}
	if input.Location != nil {
		if !h.resolveLocation(c, *input.Location) {
			return
		}
		p.LocationID = *input.Location
	}

	if err := h.db.Save(&p).Error; err != nil {
		writeError(c, h.logger, err, "license_number")
		return
	}
	if err := h.db.Preload("Location").First(&p, p.ID).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPharmacyResponse(p))
}

func (h *PharmacyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Pharmacy
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if err := h.db.Delete(&p).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	if p.Image != nil {
		removeImage(h.mediaRoot, *p.Image)
	}
	c.Status(http.StatusNoContent)
}

func (h *PharmacyHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Pharmacy
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		fieldError(c, "image", "No file was submitted.")
		return
	}
	path, err := saveImage(c, file, h.mediaRoot, "pharmacy_images")
	if err != nil {
		fieldError(c, "image", err.Error())
		return
	}

	old := p.Image
	p.Image = &path
	if err := h.db.Save(&p).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	if old != nil {
		removeImage(h.mediaRoot, *old)
	}
	if err := h.db.Preload("Location").First(&p, p.ID).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPharmacyResponse(p))
}

func (h *PharmacyHandler) DeleteImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Pharmacy
	if err := h.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if p.Image == nil {
		badRequest(c, "No image to delete.")
		return
	}

	old := *p.Image
	p.Image = nil
	if err := h.db.Model(&p).Update("image", nil).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	removeImage(h.mediaRoot, old)
	c.Status(http.StatusNoContent)
}
