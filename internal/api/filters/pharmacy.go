package filters

import (
	"net/url"

	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

type PharmacyFilter struct {
	Name               string
	Location           *int64
	LocationName       string
	Is24Hours          *bool
	LicenseNumber      string
	OwnerFullName      string
	PharmacistFullName string
}

func ParsePharmacyFilter(q url.Values) (PharmacyFilter, error) {
	var f PharmacyFilter
	var err error

	if f.Location, err = idParam(q, "location"); err != nil {
		return f, err
	}
	if f.Is24Hours, err = boolParam(q, "is_24_hours"); err != nil {
		return f, err
	}
	f.Name = stringParam(q, "name")
	f.LocationName = stringParam(q, "location_name")
	f.LicenseNumber = stringParam(q, "license_number")
	f.OwnerFullName = stringParam(q, "owner_full_name")
	f.PharmacistFullName = stringParam(q, "pharmacist_full_name")
	return f, nil
}

func (f PharmacyFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Pharmacy{})

	if f.LocationName != "" {
		q = q.Joins("JOIN locations ON locations.id = pharmacies.location_id").
			Where("locations.name ILIKE ?", contains(f.LocationName))
	}
	if f.Name != "" {
		q = q.Where("pharmacies.name ILIKE ?", contains(f.Name))
	}
	if f.Location != nil {
		q = q.Where("pharmacies.location_id = ?", *f.Location)
	}
	if f.Is24Hours != nil {
		q = q.Where("pharmacies.is_24_hours = ?", *f.Is24Hours)
	}
	if f.LicenseNumber != "" {
		q = q.Where("pharmacies.license_number = ?", f.LicenseNumber)
	}
	if f.OwnerFullName != "" {
		q = q.Where("pharmacies.owner_full_name ILIKE ?", contains(f.OwnerFullName))
	}
	if f.PharmacistFullName != "" {
		q = q.Where("pharmacies.pharmacist_full_name ILIKE ?", contains(f.PharmacistFullName))
	}
	return q
}
