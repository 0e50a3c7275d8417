// Package dto holds the wire shapes of the API. Each entity has a write
// shape (flat reference ids, pointer fields so PATCH can omit anything) and
// a read shape (resolved names / nested detail; write-only fields absent).
package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"daruyab/internal/database/models"
)

const dateLayout = "2006-01-02"

// OptionalID is a nullable reference field that remembers whether it was
// present in the request: an explicit null clears the reference, an absent
// field leaves it unchanged.
type OptionalID struct {
	Set   bool
	Value *int64
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// --- Write shapes ---

type LocationInput struct {
	Name   *string    `json:"name"`
	Type   *string    `json:"type"`
	Parent OptionalID `json:"parent"`
}

type ManufacturerInput struct {
	Name    *string `json:"name" form:"name"`
	Country *string `json:"country" form:"country"`
}

type DrugInput struct {
	GenericName          *string `json:"generic_name" form:"generic_name"`
	BrandName            *string `json:"brand_name" form:"brand_name"`
	IRC                  *string `json:"irc" form:"irc"`
	Dosage               *string `json:"dosage" form:"dosage"`
	Form                 *string `json:"form" form:"form"`
	Manufacturer         *int64  `json:"manufacturer" form:"manufacturer"`
	RequiresPrescription *bool   `json:"requires_prescription" form:"requires_prescription"`
}

type PharmacyInput struct {
	Name                  *string `json:"name" form:"name"`
	LicenseNumber         *string `json:"license_number" form:"license_number"`
	OwnerFullName         *string `json:"owner_full_name" form:"owner_full_name"`
	OwnerPhoneNumber      *string `json:"owner_phone_number" form:"owner_phone_number"`
	PharmacistFullName    *string `json:"pharmacist_full_name" form:"pharmacist_full_name"`
	PharmacistPhoneNumber *string `json:"pharmacist_phone_number" form:"pharmacist_phone_number"`
	PhoneNumber           *string `json:"phone_number" form:"phone_number"`
	Is24Hours             *bool   `json:"is_24_hours" form:"is_24_hours"`
	Address               *string `json:"address" form:"address"`
	Location              *int64  `json:"location" form:"location"`
}

type InventoryInput struct {
	Drug        *int64           `json:"drug"`
	Pharmacy    *int64           `json:"pharmacy"`
	BatchNumber *string          `json:"batch_number"`
	ExpireDate  *string          `json:"expire_date"`
	Quantity    *int64           `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
}

type UserInput struct {
	ContactNumber *string `json:"contact_number"`
	Password      *string `json:"password"`
	FullName      *string `json:"full_name"`
	Role          *string `json:"role"`
	IsActive      *bool   `json:"is_active"`
}

type CredentialsInput struct {
	ContactNumber string `json:"contact_number" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

// --- Read shapes ---

type LocationResponse struct {
	ID       int64              `json:"id"`
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	Parent   *int64             `json:"parent"`
	Children []LocationResponse `json:"children"`
}

type ManufacturerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type DrugResponse struct {
	ID                   int64   `json:"id"`
	GenericName          string  `json:"generic_name"`
	BrandName            *string `json:"brand_name"`
	IRC                  string  `json:"irc"`
	Dosage               string  `json:"dosage"`
	Form                 string  `json:"form"`
	ManufacturerName     string  `json:"manufacturer_name"`
	RequiresPrescription bool    `json:"requires_prescription"`
	Image                *string `json:"image"`
}

type PharmacyResponse struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	LicenseNumber         string  `json:"license_number"`
	OwnerFullName         string  `json:"owner_full_name"`
	OwnerPhoneNumber      string  `json:"owner_phone_number"`
	PharmacistFullName    string  `json:"pharmacist_full_name"`
	PharmacistPhoneNumber string  `json:"pharmacist_phone_number"`
	PhoneNumber           string  `json:"phone_number"`
	Is24Hours             bool    `json:"is_24_hours"`
	Address               string  `json:"address"`
	LocationName          string  `json:"location_name"`
	Image                 *string `json:"image"`
}

type InventoryResponse struct {
	ID          int64            `json:"id"`
	Drug        DrugResponse     `json:"drug"`
	Pharmacy    PharmacyResponse `json:"pharmacy"`
	BatchNumber *string          `json:"batch_number"`
	ExpireDate  string           `json:"expire_date"`
	Quantity    int64            `json:"quantity"`
	Price       decimal.Decimal  `json:"price"`
	LastUpdated time.Time        `json:"last_updated"`
}

// InventoryFlatResponse echoes a write back in the flat shape the caller
// sent, used for create/update responses.
type InventoryFlatResponse struct {
	ID          int64           `json:"id"`
	Drug        int64           `json:"drug"`
	Pharmacy    int64           `json:"pharmacy"`
	BatchNumber *string         `json:"batch_number"`
	ExpireDate  string          `json:"expire_date"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LastUpdated time.Time       `json:"last_updated"`
}

type UserResponse struct {
	ID            int64     `json:"id"`
	ContactNumber string    `json:"contact_number"`
	FullName      *string   `json:"full_name"`
	Role          *string   `json:"role"`
	IsActive      bool      `json:"is_active"`
	DateJoined    time.Time `json:"date_joined"`
	IsStaff       bool      `json:"is_staff"`
	IsSuperuser   bool      `json:"is_superuser"`
}

type SearchLogResponse struct {
	ID          int64     `json:"id"`
	User        *string   `json:"user"`
	QueryParams string    `json:"query_params"`
	IPAddress   string    `json:"ip_address"`
	Timestamp   time.Time `json:"timestamp"`
}

// --- Converters ---

func NewManufacturerResponse(m models.Manufacturer) ManufacturerResponse {
	return ManufacturerResponse{ID: m.ID, Name: m.Name, Country: m.Country}
}

// NewDrugResponse expects the manufacturer association to be preloaded.
func NewDrugResponse(d models.Drug) DrugResponse {
	resp := DrugResponse{
		ID:                   d.ID,
		GenericName:          d.GenericName,
		BrandName:            d.BrandName,
		IRC:                  d.IRC,
		Dosage:               d.Dosage,
		Form:                 d.Form,
		RequiresPrescription: d.RequiresPrescription,
		Image:                d.Image,
	}
	if d.Manufacturer != nil {
		resp.ManufacturerName = d.Manufacturer.Name
	}
	return resp
}

// NewPharmacyResponse expects the location association to be preloaded.
func NewPharmacyResponse(p models.Pharmacy) PharmacyResponse {
	resp := PharmacyResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		LicenseNumber:         p.LicenseNumber,
		OwnerFullName:         p.OwnerFullName,
		OwnerPhoneNumber:      p.OwnerPhoneNumber,
		PharmacistFullName:    p.PharmacistFullName,
		PharmacistPhoneNumber: p.PharmacistPhoneNumber,
		PhoneNumber:           p.PhoneNumber,
		Is24Hours:             p.Is24Hours,
		Address:               p.Address,
		Image:                 p.Image,
	}
	if p.Location != nil {
		resp.LocationName = p.Location.Name
	}
	return resp
}

// NewInventoryResponse expects drug (with manufacturer) and pharmacy (with
// location) preloaded.
func NewInventoryResponse(inv models.PharmacyInventory) InventoryResponse {
	resp := InventoryResponse{
		ID:          inv.ID,
		BatchNumber: inv.BatchNumber,
		ExpireDate:  inv.ExpireDate.Format(dateLayout),
		Quantity:    inv.Quantity,
		Price:       inv.Price,
		LastUpdated: inv.LastUpdated,
	}
	if inv.Drug != nil {
		resp.Drug = NewDrugResponse(*inv.Drug)
	}
	if inv.Pharmacy != nil {
		resp.Pharmacy = NewPharmacyResponse(*inv.Pharmacy)
	}
	return resp
}

func NewInventoryFlatResponse(inv models.PharmacyInventory) InventoryFlatResponse {
	return InventoryFlatResponse{
		ID:          inv.ID,
		Drug:        inv.DrugID,
		Pharmacy:    inv.PharmacyID,
		BatchNumber: inv.BatchNumber,
		ExpireDate:  inv.ExpireDate.Format(dateLayout),
		Quantity:    inv.Quantity,
		Price:       inv.Price,
		LastUpdated: inv.LastUpdated,
	}
}

func NewUserResponse(u models.User) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		ContactNumber: u.ContactNumber,
		FullName:      u.FullName,
		IsActive:      u.IsActive,
		DateJoined:    u.DateJoined,
		IsStaff:       u.IsStaff,
		IsSuperuser:   u.IsSuperuser,
	}
	if u.Role != nil {
		resp.Role = &u.Role.Name
	}
	return resp
}

// NewSearchLogResponse represents the user by contact number, matching the
// read-only log serialization.
func NewSearchLogResponse(l models.InventorySearchLog) SearchLogResponse {
	resp := SearchLogResponse{
		ID:          l.ID,
		QueryParams: l.QueryParams,
		IPAddress:   l.IPAddress,
		Timestamp:   l.Timestamp,
	}
	if l.User != nil {
		resp.User = &l.User.ContactNumber
	}
	return resp
}
