package filters

import (
	"net/url"

	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

type UserFilter struct {
	Role string
}

func ParseUserFilter(q url.Values) (UserFilter, error) {
	return UserFilter{Role: stringParam(q, "role")}, nil
}

func (f UserFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.User{})

	if f.Role != "" {
		q = q.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.name = ?", f.Role)
	}
	return q
}
