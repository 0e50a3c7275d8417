package filters

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

// newDryRunDB opens a gorm session that builds SQL without executing it.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	mock.MatchExpectationsInOrder(false)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db
}

// buildSQL runs the filter through the query builder and returns the
// generated statement and its bind variables.
func buildSQL(t *testing.T, f InventoryFilter) (string, []any) {
	t.Helper()
	db := newDryRunDB(t)
	var items []models.PharmacyInventory
	stmt := f.Apply(db).Find(&items).Statement
	return stmt.SQL.String(), stmt.Vars
}

func hasVar(vars []any, want any) bool {
	for _, v := range vars {
		if v == want {
			return true
		}
	}
	return false
}

func TestParseInventoryFilterRejectsBadValues(t *testing.T) {
	tests := []struct {
		param string
		value string
	}{
		{"drug", "abc"},
		{"pharmacy", "1.5"},
		{"pharmacy_is_24_hours", "maybe"},
		{"has_stock", "yes!"},
		{"expire_date_after", "31-12-2025"},
		{"expire_date_before", "notadate"},
		{"price_min", "cheap"},
		{"price_max", "1,50"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			_, err := ParseInventoryFilter(url.Values{tt.param: {tt.value}})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.param {
				t.Errorf("expected error on %q, got %q", tt.param, verr.Field)
			}
		})
	}
}

func TestParseInventoryFilterAcceptsEmptyQuery(t *testing.T) {
	f, err := ParseInventoryFilter(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.needsDrugJoin() || f.needsPharmacyJoin() {
		t.Error("empty filter should not require joins")
	}
}

func TestApplyNoFiltersAddsNoJoins(t *testing.T) {
	sql, _ := buildSQL(t, InventoryFilter{})
	if strings.Contains(sql, "JOIN") {
		t.Errorf("expected no joins, got: %s", sql)
	}
}

func TestApplyDrugNameJoinsDrugs(t *testing.T) {
	sql, vars := buildSQL(t, InventoryFilter{DrugName: "ibuprofen"})
	if !strings.Contains(sql, "JOIN drugs ON drugs.id = pharmacy_inventories.drug_id") {
		t.Errorf("missing drugs join: %s", sql)
	}
	if !strings.Contains(sql, "drugs.generic_name ILIKE") {
		t.Errorf("missing ILIKE predicate: %s", sql)
	}
	if !hasVar(vars, "%ibuprofen%") {
		t.Errorf("missing partial-match var, got %v", vars)
	}
	if strings.Contains(sql, "JOIN pharmacies") {
		t.Errorf("unnecessary pharmacies join: %s", sql)
	}
}

func TestApplyManufacturerNameJoinsThroughDrugs(t *testing.T) {
	sql, _ := buildSQL(t, InventoryFilter{ManufacturerName: "داروسازی"})
	if !strings.Contains(sql, "JOIN drugs ON") {
		t.Errorf("missing drugs join: %s", sql)
	}
	if !strings.Contains(sql, "JOIN manufacturers ON manufacturers.id = drugs.manufacturer_id") {
		t.Errorf("missing manufacturers join: %s", sql)
	}
	if !strings.Contains(sql, "manufacturers.name ILIKE") {
		t.Errorf("missing predicate: %s", sql)
	}
}

func TestApplyLocationCityJoinsOneAncestorLevel(t *testing.T) {
	sql, vars := buildSQL(t, InventoryFilter{LocationCity: "تهران"})
	if !strings.Contains(sql, "JOIN pharmacies ON pharmacies.id = pharmacy_inventories.pharmacy_id") {
		t.Errorf("missing pharmacies join: %s", sql)
	}
	if !strings.Contains(sql, "JOIN locations loc0 ON loc0.id = pharmacies.location_id") {
		t.Errorf("missing loc0 join: %s", sql)
	}
	if !strings.Contains(sql, "JOIN locations loc1 ON loc1.id = loc0.parent_id") {
		t.Errorf("missing loc1 join: %s", sql)
	}
	if strings.Contains(sql, "loc2") {
		t.Errorf("city filter should not join beyond depth 1: %s", sql)
	}
	if !strings.Contains(sql, "loc1.name ILIKE") {
		t.Errorf("predicate should target loc1: %s", sql)
	}
	if !hasVar(vars, "%تهران%") {
		t.Errorf("missing partial-match var, got %v", vars)
	}
}

func TestApplyLocationProvinceJoinsFullChain(t *testing.T) {
	sql, _ := buildSQL(t, InventoryFilter{LocationProvince: "فارس"})
	for _, alias := range []string{"loc0", "loc1", "loc2", "loc3"} {
		if !strings.Contains(sql, "JOIN locations "+alias) {
			t.Errorf("missing %s join: %s", alias, sql)
		}
	}
	if !strings.Contains(sql, "loc3.name ILIKE") {
		t.Errorf("predicate should target loc3: %s", sql)
	}
}

func TestApplyHasStock(t *testing.T) {
	yes, no := true, false

	sql, _ := buildSQL(t, InventoryFilter{HasStock: &yes})
	if !strings.Contains(sql, "pharmacy_inventories.quantity > 0") {
		t.Errorf("has_stock=true should require positive quantity: %s", sql)
	}

	sql, _ = buildSQL(t, InventoryFilter{HasStock: &no})
	if !strings.Contains(sql, "pharmacy_inventories.quantity = 0") {
		t.Errorf("has_stock=false should require zero quantity: %s", sql)
	}
}

func TestApplyRangesAreInclusive(t *testing.T) {
	f, err := ParseInventoryFilter(url.Values{
		"expire_date_after":  {"2026-01-01"},
		"expire_date_before": {"2026-12-31"},
		"price_min":          {"10.00"},
		"price_max":          {"99.99"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql, _ := buildSQL(t, f)
	for _, want := range []string{
		"pharmacy_inventories.expire_date >=",
		"pharmacy_inventories.expire_date <=",
		"pharmacy_inventories.price >=",
		"pharmacy_inventories.price <=",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing %q in: %s", want, sql)
		}
	}
}

func TestApplyCombinesFiltersWithAND(t *testing.T) {
	yes := true
	sql, vars := buildSQL(t, InventoryFilter{
		DrugName:         "amoxicillin",
		PharmacyName:     "مرکزی",
		LocationProvince: "اصفهان",
		HasStock:         &yes,
	})
	for _, want := range []string{
		"drugs.generic_name ILIKE",
		"pharmacies.name ILIKE",
		"loc3.name ILIKE",
		"pharmacy_inventories.quantity > 0",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing %q in: %s", want, sql)
		}
	}
	if strings.Count(sql, " AND ") < 3 {
		t.Errorf("predicates should be ANDed: %s", sql)
	}
	if !hasVar(vars, "%amoxicillin%") || !hasVar(vars, "%مرکزی%") {
		t.Errorf("missing vars: %v", vars)
	}
}

func TestApplyExactMatchFilters(t *testing.T) {
	drugID := int64(7)
	sql, vars := buildSQL(t, InventoryFilter{Drug: &drugID, DrugIRC: "1228070503"})
	if !strings.Contains(sql, "pharmacy_inventories.drug_id =") {
		t.Errorf("missing drug id predicate: %s", sql)
	}
	if !strings.Contains(sql, "drugs.irc =") {
		t.Errorf("irc should match exactly: %s", sql)
	}
	if strings.Contains(sql, "drugs.irc ILIKE") {
		t.Errorf("irc must not be partial: %s", sql)
	}
	if !hasVar(vars, int64(7)) || !hasVar(vars, "1228070503") {
		t.Errorf("missing vars: %v", vars)
	}
}
