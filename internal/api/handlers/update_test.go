package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"daruyab/internal/api/dto"
	"daruyab/internal/database/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func sendJSON(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLocationPartialUpdateClearsParentWithExplicitNull(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	h := NewLocationHandler(db, zap.NewNop())
	r := gin.New()
	r.PATCH("/api/locations/:id/", h.PartialUpdate)

	// Stored county under province 2, re-typed to a root province.
	mock.ExpectQuery(`SELECT \* FROM "locations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "parent_id"}).
			AddRow(5, "کرج", models.LocationTypeCounty, 2))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "locations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "locations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "parent_id"}).
			AddRow(5, "کرج", models.LocationTypeProvince, nil))

	w := sendJSON(r, http.MethodPatch, "/api/locations/5/",
		`{"type":"استان","parent":null}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"parent":null`) {
		t.Errorf("parent should be cleared, got %s", w.Body.String())
	}
}

func TestLocationPartialUpdateOmittedParentStays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	h := NewLocationHandler(db, zap.NewNop())
	r := gin.New()
	r.PATCH("/api/locations/:id/", h.PartialUpdate)

	mock.ExpectQuery(`SELECT \* FROM "locations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "parent_id"}).
			AddRow(5, "کرج", models.LocationTypeCounty, 2))
	// Resulting state keeps parent 2, so it is resolved and validated.
	mock.ExpectQuery(`SELECT \* FROM "locations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "parent_id"}).
			AddRow(2, "البرز", models.LocationTypeProvince, nil))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "locations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "locations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "parent_id"}))

	w := sendJSON(r, http.MethodPatch, "/api/locations/5/", `{"name":"ساوجبلاغ"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"parent":2`) {
		t.Errorf("omitted parent should stay, got %s", w.Body.String())
	}
}

func TestManufacturerPutRequiresFullShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	h := NewManufacturerHandler(db, zap.NewNop())
	r := gin.New()
	r.PUT("/api/manufacturers/:id/", h.Update)
	r.PATCH("/api/manufacturers/:id/", h.PartialUpdate)

	mock.ExpectQuery(`SELECT \* FROM "manufacturers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country"}).
			AddRow(3, "داروپخش", "ایران"))

	w := sendJSON(r, http.MethodPut, "/api/manufacturers/3/", `{"name":"اکتوورکو"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("PUT without country should fail, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "country") {
		t.Errorf("error should name the missing field, got %s", w.Body.String())
	}
}

func TestDrugUpdateReloadFailureReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := newMockDB(t)
	h := NewDrugHandler(db, zap.NewNop(), t.TempDir())
	r := gin.New()
	r.PATCH("/api/drugs/:id/", h.PartialUpdate)

	drugCols := []string{"id", "generic_name", "brand_name", "irc", "dosage", "form", "manufacturer_id", "requires_prescription", "image"}
	mock.ExpectQuery(`SELECT \* FROM "drugs"`).
		WillReturnRows(sqlmock.NewRows(drugCols).
			AddRow(7, "ibuprofen", nil, "1228070503", "200mg", "tablet", 1, true, nil))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "drugs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "drugs"`).
		WillReturnError(errors.New("connection reset"))

	w := sendJSON(r, http.MethodPatch, "/api/drugs/7/", `{"dosage":"400mg"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("failed reload should surface as 500, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestMissingFieldHelpers(t *testing.T) {
	s := func(v string) *string { return &v }
	n := func(v int64) *int64 { return &v }

	if got := missingLocationField(dto.LocationInput{}); got != "name" {
		t.Errorf("location: got %q", got)
	}
	if got := missingLocationField(dto.LocationInput{Name: s("x"), Type: s("استان")}); got != "" {
		t.Errorf("location complete: got %q", got)
	}
	if got := missingManufacturerField(dto.ManufacturerInput{Name: s("x")}); got != "country" {
		t.Errorf("manufacturer: got %q", got)
	}
	if got := missingDrugField(dto.DrugInput{
		GenericName: s("a"), IRC: s("b"), Dosage: s("c"), Form: s("d"),
	}); got != "manufacturer" {
		t.Errorf("drug: got %q", got)
	}
	if got := missingPharmacyField(dto.PharmacyInput{Name: s("x")}); got != "license_number" {
		t.Errorf("pharmacy: got %q", got)
	}
	price := decimal.NewFromInt(10)
	if got := missingInventoryField(dto.InventoryInput{
		Drug: n(1), Pharmacy: n(2), ExpireDate: s("2027-01-01"), Quantity: n(5), Price: &price,
	}); got != "" {
		t.Errorf("inventory complete: got %q", got)
	}
	if got := missingInventoryField(dto.InventoryInput{Drug: n(1)}); got != "pharmacy" {
		t.Errorf("inventory: got %q", got)
	}
	if got := missingUserField(dto.UserInput{ContactNumber: s("0912")}); got != "password" {
		t.Errorf("user: got %q", got)
	}
}
