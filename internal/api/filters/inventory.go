package filters

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

// InventoryFilter is the flat, all-optional parameter set of an inventory
// search. Every supplied filter is ANDed; the ancestor-name filters match
// the location chain at one fixed depth each (0 = the pharmacy's own
// location = district, 3 = province).
type InventoryFilter struct {
	Drug              *int64
	DrugName          string
	DrugBrandName     string
	DrugForm          string
	DrugIRC           string
	ManufacturerName  string
	Pharmacy          *int64
	PharmacyName      string
	PharmacyIs24Hours *bool
	LocationDistrict  string
	LocationCity      string
	LocationCounty    string
	LocationProvince  string
	BatchNumber       string
	HasStock          *bool
	ExpireDateAfter   *time.Time
	ExpireDateBefore  *time.Time
	PriceMin          *decimal.Decimal
	PriceMax          *decimal.Decimal
}

func ParseInventoryFilter(q url.Values) (InventoryFilter, error) {
	var f InventoryFilter
	var err error

	if f.Drug, err = idParam(q, "drug"); err != nil {
		return f, err
	}
	if f.Pharmacy, err = idParam(q, "pharmacy"); err != nil {
		return f, err
	}
	if f.PharmacyIs24Hours, err = boolParam(q, "pharmacy_is_24_hours"); err != nil {
		return f, err
	}
	if f.HasStock, err = boolParam(q, "has_stock"); err != nil {
		return f, err
	}
	if f.ExpireDateAfter, err = dateParam(q, "expire_date_after"); err != nil {
		return f, err
	}
	if f.ExpireDateBefore, err = dateParam(q, "expire_date_before"); err != nil {
		return f, err
	}
	if f.PriceMin, err = decimalParam(q, "price_min"); err != nil {
		return f, err
	}
	if f.PriceMax, err = decimalParam(q, "price_max"); err != nil {
		return f, err
	}

	f.DrugName = stringParam(q, "drug_name")
	f.DrugBrandName = stringParam(q, "drug_brand_name")
	f.DrugForm = stringParam(q, "drug_form")
	f.DrugIRC = stringParam(q, "drug_irc")
	f.ManufacturerName = stringParam(q, "manufacturer_name")
	f.PharmacyName = stringParam(q, "pharmacy_name")
	f.LocationDistrict = stringParam(q, "location_district")
	f.LocationCity = stringParam(q, "location_city")
	f.LocationCounty = stringParam(q, "location_county")
	f.LocationProvince = stringParam(q, "location_province")
	f.BatchNumber = stringParam(q, "batch_number")

	return f, nil
}

// needsDrugJoin reports whether any filter touches drug columns.
func (f InventoryFilter) needsDrugJoin() bool {
	return f.DrugName != "" || f.DrugBrandName != "" || f.DrugForm != "" ||
		f.DrugIRC != "" || f.ManufacturerName != ""
}

// needsPharmacyJoin reports whether any filter touches pharmacy columns or
// the location chain.
func (f InventoryFilter) needsPharmacyJoin() bool {
	return f.PharmacyName != "" || f.PharmacyIs24Hours != nil || f.locationDepth() >= 0
}

// locationDepth returns the deepest ancestor level any filter requires, or
// -1 when no location filter is set.
func (f InventoryFilter) locationDepth() int {
	switch {
	case f.LocationProvince != "":
		return 3
	case f.LocationCounty != "":
		return 2
	case f.LocationCity != "":
		return 1
	case f.LocationDistrict != "":
		return 0
	}
	return -1
}

// Apply chains the filter onto an inventory query. Joins are added only when
// a supplied filter needs them; the location chain is joined once per
// required depth with inner joins, so a pharmacy whose chain is shorter than
// a requested depth yields no match rather than an error.
func (f InventoryFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.PharmacyInventory{})

	if f.needsDrugJoin() {
		q = q.Joins("JOIN drugs ON drugs.id = pharmacy_inventories.drug_id")
	}
	if f.ManufacturerName != "" {
		q = q.Joins("JOIN manufacturers ON manufacturers.id = drugs.manufacturer_id")
	}
	if f.needsPharmacyJoin() {
		q = q.Joins("JOIN pharmacies ON pharmacies.id = pharmacy_inventories.pharmacy_id")
	}

	joins := []string{
		"JOIN locations loc0 ON loc0.id = pharmacies.location_id",
		"JOIN locations loc1 ON loc1.id = loc0.parent_id",
		"JOIN locations loc2 ON loc2.id = loc1.parent_id",
		"JOIN locations loc3 ON loc3.id = loc2.parent_id",
	}
	for depth := 0; depth <= f.locationDepth(); depth++ {
		q = q.Joins(joins[depth])
	}

	if f.Drug != nil {
		q = q.Where("pharmacy_inventories.drug_id = ?", *f.Drug)
	}
	if f.Pharmacy != nil {
		q = q.Where("pharmacy_inventories.pharmacy_id = ?", *f.Pharmacy)
	}
	if f.DrugName != "" {
		q = q.Where("drugs.generic_name ILIKE ?", contains(f.DrugName))
	}
	if f.DrugBrandName != "" {
		q = q.Where("drugs.brand_name ILIKE ?", contains(f.DrugBrandName))
	}
	if f.DrugForm != "" {
		q = q.Where("drugs.form ILIKE ?", contains(f.DrugForm))
	}
	if f.DrugIRC != "" {
		q = q.Where("drugs.irc = ?", f.DrugIRC)
	}
	if f.ManufacturerName != "" {
		q = q.Where("manufacturers.name ILIKE ?", contains(f.ManufacturerName))
	}
	if f.PharmacyName != "" {
		q = q.Where("pharmacies.name ILIKE ?", contains(f.PharmacyName))
	}
	if f.PharmacyIs24Hours != nil {
		q = q.Where("pharmacies.is_24_hours = ?", *f.PharmacyIs24Hours)
	}
	if f.LocationDistrict != "" {
		q = q.Where("loc0.name ILIKE ?", contains(f.LocationDistrict))
	}
	if f.LocationCity != "" {
		q = q.Where("loc1.name ILIKE ?", contains(f.LocationCity))
	}
	if f.LocationCounty != "" {
		q = q.Where("loc2.name ILIKE ?", contains(f.LocationCounty))
	}
	if f.LocationProvince != "" {
		q = q.Where("loc3.name ILIKE ?", contains(f.LocationProvince))
	}
	if f.BatchNumber != "" {
		q = q.Where("pharmacy_inventories.batch_number ILIKE ?", contains(f.BatchNumber))
	}
	if f.HasStock != nil {
		if *f.HasStock {
			q = q.Where("pharmacy_inventories.quantity > 0")
		} else {
			q = q.Where("pharmacy_inventories.quantity = 0")
		}
	}
	if f.ExpireDateAfter != nil {
		q = q.Where("pharmacy_inventories.expire_date >= ?", *f.ExpireDateAfter)
	}
	if f.ExpireDateBefore != nil {
		q = q.Where("pharmacy_inventories.expire_date <= ?", *f.ExpireDateBefore)
	}
	if f.PriceMin != nil {
		q = q.Where("pharmacy_inventories.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("pharmacy_inventories.price <= ?", *f.PriceMax)
	}

	return q
}
