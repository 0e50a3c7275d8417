package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role groups users for permission checks. The "Admin" role (together with
// the superuser flag) gates the user and search-log endpoints.
type Role struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:50;uniqueIndex;not null"`
}

// User authenticates by contact number instead of a username.
type User struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	ContactNumber string    `gorm:"size:20;uniqueIndex;not null"`
	Password      string    `gorm:"not null"`
	FullName      *string   `gorm:"size:100"`
	RoleID        *int64
	Role          *Role     `gorm:"foreignKey:RoleID;constraint:OnDelete:SET NULL"`
	IsActive      bool      `gorm:"default:true"`
	IsStaff       bool      `gorm:"default:false"`
	IsSuperuser   bool      `gorm:"default:false"`
	DateJoined    time.Time `gorm:"autoCreateTime"`
}

// SyncRoleFlags mirrors the role onto the staff/superuser flags: the Admin
// role grants both, any other role (or none) revokes both.
func (u *User) SyncRoleFlags(role *Role) {
	if role != nil && role.Name == "Admin" {
		u.IsStaff = true
		u.IsSuperuser = true
		return
	}
	u.IsStaff = false
	u.IsSuperuser = false
}

// IsAdminOrSuperuser reports whether the user may access restricted
// resources (user management, search logs).
func (u *User) IsAdminOrSuperuser() bool {
	if u.IsSuperuser {
		return true
	}
	return u.Role != nil && u.Role.Name == "Admin"
}

// Location is a node in the four-level استان/شهرستان/شهر/منطقه tree.
// Children are found by reverse lookup on ParentID; deleting a node deletes
// its whole subtree.
type Location struct {
	ID       int64      `gorm:"primaryKey;autoIncrement"`
	Name     string     `gorm:"size:100;not null"`
	Type     string     `gorm:"size:50;not null"`
	ParentID *int64
	Parent   *Location  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Children []Location `gorm:"foreignKey:ParentID"`
}

type Manufacturer struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"size:100;uniqueIndex;not null"`
	Country string `gorm:"size:50;not null"`
}

type Drug struct {
	ID                   int64         `gorm:"primaryKey;autoIncrement"`
	GenericName          string        `gorm:"size:100;not null"`
	BrandName            *string       `gorm:"size:100"`
	IRC                  string        `gorm:"size:20;uniqueIndex;not null"`
	Dosage               string        `gorm:"size:50;not null"`
	Form                 string        `gorm:"size:50;not null"`
	ManufacturerID       int64         `gorm:"not null"`
	Manufacturer         *Manufacturer `gorm:"foreignKey:ManufacturerID;constraint:OnDelete:CASCADE"`
	RequiresPrescription bool          `gorm:"default:true"`
	Image                *string       `gorm:"size:255"`
}

type Pharmacy struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement"`
	Name                  string    `gorm:"size:150;not null"`
	LicenseNumber         string    `gorm:"size:50;uniqueIndex;not null"`
	OwnerFullName         string    `gorm:"size:100;not null"`
	OwnerPhoneNumber      string    `gorm:"size:20;not null"`
	PharmacistFullName    string    `gorm:"size:100;not null"`
	PharmacistPhoneNumber string    `gorm:"size:20;not null"`
	PhoneNumber           string    `gorm:"size:20;not null"`
	Is24Hours             bool      `gorm:"default:false"`
	Address               string    `gorm:"type:text;not null"`
	LocationID            int64     `gorm:"not null"`
	Location              *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:RESTRICT"`
	Image                 *string   `gorm:"size:255"`
}

// PharmacyInventory links one drug batch to one pharmacy. Multiple batches
// of the same drug at the same pharmacy are distinct rows.
type PharmacyInventory struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	DrugID      int64           `gorm:"not null"`
	Drug        *Drug           `gorm:"foreignKey:DrugID;constraint:OnDelete:CASCADE"`
	PharmacyID  int64           `gorm:"not null"`
	Pharmacy    *Pharmacy       `gorm:"foreignKey:PharmacyID;constraint:OnDelete:CASCADE"`
	BatchNumber *string         `gorm:"size:100"`
	ExpireDate  time.Time       `gorm:"type:date;not null"`
	Quantity    int64           `gorm:"not null;check:quantity >= 0"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	LastUpdated time.Time       `gorm:"autoUpdateTime"`
}

// InventorySearchLog records the raw query parameters of an inventory
// search. Rows are write-once; the user reference survives user deletion as
// NULL.
type InventorySearchLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      *int64
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	QueryParams string    `gorm:"type:text;not null"`
	IPAddress   string    `gorm:"size:45;not null"`
	Timestamp   time.Time `gorm:"autoCreateTime"`
}

// RequestLog records one row per API call: caller, redacted payload and
// outcome. Rows are write-once.
type RequestLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserID         *int64
	User           *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Endpoint       string    `gorm:"size:255;not null"`
	Method         string    `gorm:"size:10;not null"`
	RequestPayload *string   `gorm:"type:text"`
	ResponseStatus int       `gorm:"not null"`
	IPAddress      string    `gorm:"size:45;not null"`
	Timestamp      time.Time `gorm:"autoCreateTime"`
}
