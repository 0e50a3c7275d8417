package filters

import (
	"net/url"

	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

type DrugFilter struct {
	GenericName          string
	BrandName            string
	Manufacturer         *int64
	ManufacturerName     string
	Form                 string
	IRC                  string
	RequiresPrescription *bool
}

func ParseDrugFilter(q url.Values) (DrugFilter, error) {
	var f DrugFilter
	var err error

	if f.Manufacturer, err = idParam(q, "manufacturer"); err != nil {
		return f, err
	}
	if f.RequiresPrescription, err = boolParam(q, "requires_prescription"); err != nil {
		return f, err
	}
	f.GenericName = stringParam(q, "generic_name")
	f.BrandName = stringParam(q, "brand_name")
	f.ManufacturerName = stringParam(q, "manufacturer_name")
	f.Form = stringParam(q, "form")
	f.IRC = stringParam(q, "irc")
	return f, nil
}

func (f DrugFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Drug{})

	if f.ManufacturerName != "" {
		q = q.Joins("JOIN manufacturers ON manufacturers.id = drugs.manufacturer_id").
			Where("manufacturers.name ILIKE ?", contains(f.ManufacturerName))
	}
	if f.GenericName != "" {
		q = q.Where("drugs.generic_name ILIKE ?", contains(f.GenericName))
	}
	if f.BrandName != "" {
		q = q.Where("drugs.brand_name ILIKE ?", contains(f.BrandName))
	}
	if f.Manufacturer != nil {
		q = q.Where("drugs.manufacturer_id = ?", *f.Manufacturer)
	}
	if f.Form != "" {
		q = q.Where("drugs.form ILIKE ?", contains(f.Form))
	}
	if f.IRC != "" {
		q = q.Where("drugs.irc = ?", f.IRC)
	}
	if f.RequiresPrescription != nil {
		q = q.Where("drugs.requires_prescription = ?", *f.RequiresPrescription)
	}
	return q
}
