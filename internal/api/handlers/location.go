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

type LocationHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLocationHandler(db *gorm.DB, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{db: db, logger: logger}
}

// childrenIndex maps parent id to child locations, for recursive
// serialization without per-node queries.
func (h *LocationHandler) childrenIndex() (map[int64][]models.Location, error) {
	var all []models.Location
	if err := h.db.Order("id").Find(&all).Error; err != nil {
		return nil, err
	}
	index := make(map[int64][]models.Location)
	for _, loc := range all {
		if loc.ParentID != nil {
			index[*loc.ParentID] = append(index[*loc.ParentID], loc)
		}
	}
	return index, nil
}

func buildLocationResponse(loc models.Location, index map[int64][]models.Location) dto.LocationResponse {
	resp := dto.LocationResponse{
		ID:       loc.ID,
		Name:     loc.Name,
		Type:     loc.Type,
		Parent:   loc.ParentID,
		Children: []dto.LocationResponse{},
	}
	for _, child := range index[loc.ID] {
		resp.Children = append(resp.Children, buildLocationResponse(child, index))
	}
	return resp
}

func missingLocationField(in dto.LocationInput) string {
	if in.Name == nil || *in.Name == "" {
		return "name"
	}
	if in.Type == nil || *in.Type == "" {
		return "type"
	}
	return ""
}

func (h *LocationHandler) List(c *gin.Context) {
	filter, err := filters.ParseLocationFilter(c.Request.URL.Query())
	if err != nil {
		filterError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		filterError(c, err)
		return
	}

	q := filter.Apply(h.db).Order("locations.id")
	q, count, err := paginate(q, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	var locations []models.Location
	if err := q.Find(&locations).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}

	index, err := h.childrenIndex()
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	results := make([]dto.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		results = append(results, buildLocationResponse(loc, index))
	}
	c.JSON(http.StatusOK, listEnvelope(count, results))
}

func (h *LocationHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var loc models.Location
	if err := h.db.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	index, err := h.childrenIndex()
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, buildLocationResponse(loc, index))
}

// resolveParent loads the referenced parent, mapping a missing id onto a
// per-field validation error.
func (h *LocationHandler) resolveParent(c *gin.Context, parentID int64) (*models.Location, bool) {
	var parent models.Location
	if err := h.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldError(c, "parent", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", parentID))
			return nil, false
		}
		serverError(c, h.logger, err)
		return nil, false
	}
	return &parent, true
}

func (h *LocationHandler) Create(c *gin.Context) {
	var input dto.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if field := missingLocationField(input); field != "" {
		fieldError(c, field, "This field is required.")
		return
	}

	var parent *models.Location
	if input.Parent.Value != nil {
		var ok bool
		if parent, ok = h.resolveParent(c, *input.Parent.Value); !ok {
			return
		}
	}

	if err := models.ValidateLocationHierarchy(*input.Type, parent); err != nil {
		var herr *models.HierarchyError
		if errors.As(err, &herr) {
			fieldError(c, herr.Field, herr.Message)
			return
		}
		badRequest(c, err.Error())
		return
	}

	loc := models.Location{Name: *input.Name, Type: *input.Type, ParentID: input.Parent.Value}
	if err := h.db.Create(&loc).Error; err != nil {
		writeError(c, h.logger, err, "name")
		return
	}

	index, err := h.childrenIndex()
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, buildLocationResponse(loc, index))
}

// Update is the full-shape replacement; PartialUpdate applies only the
// fields present. Both validate the hierarchy of the resulting state:
// fields absent from a partial update keep their stored values before the
// rules run, and an explicit "parent": null clears the parent.
func (h *LocationHandler) Update(c *gin.Context)        { h.update(c, false) }
func (h *LocationHandler) PartialUpdate(c *gin.Context) { h.update(c, true) }

func (h *LocationHandler) update(c *gin.Context, partial bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var loc models.Location
	if err := h.db.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	var input dto.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if !partial {
		if field := missingLocationField(input); field != "" {
			fieldError(c, field, "This field is required.")
			return
		}
	}

	if input.Name != nil {
		loc.Name = *input.Name
	}
	if input.Type != nil {
		loc.Type = *input.Type
	}
	if input.Parent.Set {
		loc.ParentID = input.Parent.Value
	}

	var parent *models.Location
	if loc.ParentID != nil {
		if parent, ok = h.resolveParent(c, *loc.ParentID); !ok {
			return
		}
	}

	if err := models.ValidateLocationHierarchy(loc.Type, parent); err != nil {
		var herr *models.HierarchyError
		if errors.As(err, &herr) {
			fieldError(c, herr.Field, herr.Message)
			return
		}
		badRequest(c, err.Error())
		return
	}

	if err := h.db.Save(&loc).Error; err != nil {
		writeError(c, h.logger, err, "name")
		return
	}

	index, err := h.childrenIndex()
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, buildLocationResponse(loc, index))
}

// Delete removes the node; the database cascades over the subtree.
func (h *LocationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var loc models.Location
	if err := h.db.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if err := h.db.Delete(&loc).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
