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

type DrugHandler struct {
	db        *gorm.DB
	logger    *zap.Logger
	mediaRoot string
}

func NewDrugHandler(db *gorm.DB, logger *zap.Logger, mediaRoot string) *DrugHandler {
	return &DrugHandler{db: db, logger: logger, mediaRoot: mediaRoot}
}

func (h *DrugHandler) List(c *gin.Context) {
	filter, err := filters.ParseDrugFilter(c.Request.URL.Query())
	if err != nil {
		filterError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		filterError(c, err)
		return
	}

	q := filter.Apply(h.db).Order("drugs.id")
	q, count, err := paginate(q, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	var drugs []models.Drug
	if err := q.Preload("Manufacturer").Find(&drugs).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	results := make([]dto.DrugResponse, 0, len(drugs))
	for _, d := range drugs {
		results = append(results, dto.NewDrugResponse(d))
	}
	c.JSON(http.StatusOK, listEnvelope(count, results))
}

func (h *DrugHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var d models.Drug
	if err := h.db.Preload("Manufacturer").First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDrugResponse(d))
}

func (h *DrugHandler) resolveManufacturer(c *gin.Context, id int64) bool {
	var m models.Manufacturer
	if err := h.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldError(c, "manufacturer", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			return false
		}
		serverError(c, h.logger, err)
		return false
	}
	return true
}

func missingDrugField(in dto.DrugInput) string {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"generic_name", in.GenericName},
		{"irc", in.IRC},
		{"dosage", in.Dosage},
		{"form", in.Form},
	} {
		if f.value == nil || *f.value == "" {
			return f.name
		}
	}
	if in.Manufacturer == nil {
		return "manufacturer"
	}
	return ""
}

func (h *DrugHandler) Create(c *gin.Context) {
	var input dto.DrugInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if field := missingDrugField(input); field != "" {
		fieldError(c, field, "This field is required.")
		return
	}
	if !h.resolveManufacturer(c, *input.Manufacturer) {
		return
	}

	d := models.Drug{
		GenericName:    *input.GenericName,
		BrandName:      input.BrandName,
		IRC:            *input.IRC,
		Dosage:         *input.Dosage,
		Form:           *input.Form,
		ManufacturerID: *input.Manufacturer,
	}
	if input.RequiresPrescription != nil {
		d.RequiresPrescription = *input.RequiresPrescription
	} else {
		d.RequiresPrescription = true
	}

	if file, err := c.FormFile("image"); err == nil {
		path, err := saveImage(c, file, h.mediaRoot, "drug_images")
		if err != nil {
			fieldError(c, "image", err.Error())
			return
		}
		d.Image = &path
	}

	if err := h.db.Create(&d).Error; err != nil {
		writeError(c, h.logger, err, "irc")
		return
	}
	if err := h.db.Preload("Manufacturer").First(&d, d.ID).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewDrugResponse(d))
}

// Update is the full-shape replacement; PartialUpdate applies only the
// fields present.
func (h *DrugHandler) Update(c *gin.Context)        { h.update(c, false) }
func (h *DrugHandler) PartialUpdate(c *gin.Context) { h.update(c, true) }

func (h *DrugHandler) update(c *gin.Context, partial bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var d models.Drug
	if err := h.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	var input dto.DrugInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if !partial {
		if field := missingDrugField(input); field != "" {
			fieldError(c, field, "This field is required.")
			return
		}
	}
	if input.GenericName != nil {
		d.GenericName = *input.GenericName
	}
	if input.BrandName != nil {
		d.BrandName = input.BrandName
	}
	if input.IRC != nil {
		d.IRC = *input.IRC
	}
	if input.Dosage != nil {
		d.Dosage = *input.Dosage
	}
	if input.Form != nil {
		d.Form = *input.Form
	}
	if input.RequiresPrescription != nil {
		d.RequiresPrescription = *input.RequiresPrescription
	}
	if input.Manufacturer != nil {
		if !h.resolveManufacturer(c, *input.Manufacturer) {
			return
		}
		d.ManufacturerID = *input.Manufacturer
	}

	if err := h.db.Save(&d).Error; err != nil {
		writeError(c, h.logger, err, "irc")
		return
	}
	if err := h.db.Preload("Manufacturer").First(&d, d.ID).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDrugResponse(d))
}

func (h *DrugHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var d models.Drug
	if err := h.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if err := h.db.Delete(&d).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	if d.Image != nil {
		removeImage(h.mediaRoot, *d.Image)
	}
	c.Status(http.StatusNoContent)
}

// UploadImage replaces the drug's image from a multipart form.
func (h *DrugHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var d models.Drug
	if err := h.db.First(&d, id).Error; err != nil {
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
	path, err := saveImage(c, file, h.mediaRoot, "drug_images")
	if err != nil {
		fieldError(c, "image", err.Error())
		return
	}

	old := d.Image
	d.Image = &path
	if err := h.db.Save(&d).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	if old != nil {
		removeImage(h.mediaRoot, *old)
	}
	if err := h.db.Preload("Manufacturer").First(&d, d.ID).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewDrugResponse(d))
}

func (h *DrugHandler) DeleteImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var d models.Drug
	if err := h.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if d.Image == nil {
		badRequest(c, "No image to delete.")
		return
	}

	old := *d.Image
	d.Image = nil
	if err := h.db.Model(&d).Update("image", nil).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	removeImage(h.mediaRoot, old)
	c.Status(http.StatusNoContent)
}
