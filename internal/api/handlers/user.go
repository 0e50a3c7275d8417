package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"daruyab/internal/api/dto"
	"daruyab/internal/api/filters"
	"daruyab/internal/database/models"
)

type UserHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserHandler(db *gorm.DB, logger *zap.Logger) *UserHandler {
	return &UserHandler{db: db, logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	filter, err := filters.ParseUserFilter(c.Request.URL.Query())
	if err != nil {
		filterError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		filterError(c, err)
		return
	}

	q := filter.Apply(h.db).Order("users.id")
	q, count, err := paginate(q, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	var users []models.User
	if err := q.Preload("Role").Find(&users).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	results := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		results = append(results, dto.NewUserResponse(u))
	}
	c.JSON(http.StatusOK, listEnvelope(count, results))
}

func (h *UserHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var u models.User
	if err := h.db.Preload("Role").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// resolveRole looks a role up by name, mapping an unknown name onto a
// per-field validation error.
func (h *UserHandler) resolveRole(c *gin.Context, name string) (*models.Role, bool) {
	var role models.Role
	if err := h.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldError(c, "role", fmt.Sprintf("Role '%s' does not exist.", name))
			return nil, false
		}
		serverError(c, h.logger, err)
		return nil, false
	}
	return &role, true
}

func missingUserField(in dto.UserInput) string {
	if in.ContactNumber == nil || *in.ContactNumber == "" {
		return "contact_number"
	}
	if in.Password == nil || *in.Password == "" {
		return "password"
	}
	return ""
}

func (h *UserHandler) Create(c *gin.Context) {
	var input dto.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if field := missingUserField(input); field != "" {
		fieldError(c, field, "This field is required.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	u := models.User{
		ContactNumber: *input.ContactNumber,
		Password:      string(hash),
		FullName:      input.FullName,
		IsActive:      true,
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}

	var role *models.Role
	if input.Role != nil && *input.Role != "" {
		var ok bool
		if role, ok = h.resolveRole(c, *input.Role); !ok {
			return
		}
		u.RoleID = &role.ID
	}
	u.SyncRoleFlags(role)

	if err := h.db.Create(&u).Error; err != nil {
		writeError(c, h.logger, err, "contact_number")
		return
	}
	u.Role = role
	c.JSON(http.StatusCreated, dto.NewUserResponse(u))
}

// Update is the full-shape replacement (contact number and password must
// be resent); PartialUpdate applies only the fields present.
func (h *UserHandler) Update(c *gin.Context)        { h.update(c, false) }
func (h *UserHandler) PartialUpdate(c *gin.Context) { h.update(c, true) }

func (h *UserHandler) update(c *gin.Context, partial bool) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var u models.User
	if err := h.db.Preload("Role").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	var input dto.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}
	if !partial {
		if field := missingUserField(input); field != "" {
			fieldError(c, field, "This field is required.")
			return
		}
	}
	if input.ContactNumber != nil {
		u.ContactNumber = *input.ContactNumber
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			serverError(c, h.logger, err)
			return
		}
		u.Password = string(hash)
	}
	if input.FullName != nil {
		u.FullName = input.FullName
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}
	if input.Role != nil {
		if *input.Role == "" {
			u.RoleID = nil
			u.Role = nil
			u.SyncRoleFlags(nil)
		} else {
			role, ok := h.resolveRole(c, *input.Role)
			if !ok {
				return
			}
			u.RoleID = &role.ID
			u.Role = role
			u.SyncRoleFlags(role)
		}
	}

	if err := h.db.Save(&u).Error; err != nil {
		writeError(c, h.logger, err, "contact_number")
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var u models.User
	if err := h.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	if err := h.db.Delete(&u).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
