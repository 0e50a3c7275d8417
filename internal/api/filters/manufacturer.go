package filters

import (
	"net/url"

	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

type ManufacturerFilter struct {
	Name    string
	Country string
}

func ParseManufacturerFilter(q url.Values) (ManufacturerFilter, error) {
	return ManufacturerFilter{
		Name:    stringParam(q, "name"),
		Country: stringParam(q, "country"),
	}, nil
}

func (f ManufacturerFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Manufacturer{})

	if f.Name != "" {
		q = q.Where("name ILIKE ?", contains(f.Name))
	}
	if f.Country != "" {
		q = q.Where("country ILIKE ?", contains(f.Country))
	}
	return q
}
