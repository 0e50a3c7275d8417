package filters

import (
	"net/url"

	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

type LocationFilter struct {
	Name       string
	Type       string
	Parent     *int64
	ParentName string
}

func ParseLocationFilter(q url.Values) (LocationFilter, error) {
	var f LocationFilter
	var err error

	if f.Parent, err = idParam(q, "parent"); err != nil {
		return f, err
	}
	f.Name = stringParam(q, "name")
	f.Type = stringParam(q, "type")
	f.ParentName = stringParam(q, "parent_name")
	return f, nil
}

func (f LocationFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Location{})

	if f.ParentName != "" {
		q = q.Joins("JOIN locations parents ON parents.id = locations.parent_id").
			Where("parents.name ILIKE ?", contains(f.ParentName))
	}
	if f.Name != "" {
		q = q.Where("locations.name ILIKE ?", contains(f.Name))
	}
	if f.Type != "" {
		q = q.Where("locations.type = ?", f.Type)
	}
	if f.Parent != nil {
		q = q.Where("locations.parent_id = ?", *f.Parent)
	}
	return q
}
