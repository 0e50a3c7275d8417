package models

import (
	"errors"
	"testing"
)

func TestValidateLocationHierarchy(t *testing.T) {
	tests := []struct {
		name      string
		locType   string
		parent    *Location
		wantField string
	}{
		{
			name:    "province without parent is valid",
			locType: LocationTypeProvince,
		},
		{
			name:      "province with parent is rejected",
			locType:   LocationTypeProvince,
			parent:    &Location{Type: LocationTypeProvince},
			wantField: "parent",
		},
		{
			name:    "county under province is valid",
			locType: LocationTypeCounty,
			parent:  &Location{Type: LocationTypeProvince},
		},
		{
			name:    "city under county is valid",
			locType: LocationTypeCity,
			parent:  &Location{Type: LocationTypeCounty},
		},
		{
			name:    "district under city is valid",
			locType: LocationTypeDistrict,
			parent:  &Location{Type: LocationTypeCity},
		},
		{
			name:      "county without parent is rejected",
			locType:   LocationTypeCounty,
			wantField: "parent",
		},
		{
			name:      "district without parent is rejected",
			locType:   LocationTypeDistrict,
			wantField: "parent",
		},
		{
			name:      "city under district is rejected",
			locType:   LocationTypeCity,
			parent:    &Location{Type: LocationTypeDistrict},
			wantField: "parent",
		},
		{
			name:      "district under province is rejected",
			locType:   LocationTypeDistrict,
			parent:    &Location{Type: LocationTypeProvince},
			wantField: "parent",
		},
		{
			name:      "unknown type is rejected on the type field",
			locType:   "village",
			parent:    &Location{Type: LocationTypeCity},
			wantField: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocationHierarchy(tt.locType, tt.parent)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var herr *HierarchyError
			if !errors.As(err, &herr) {
				t.Fatalf("expected HierarchyError, got %v", err)
			}
			if herr.Field != tt.wantField {
				t.Errorf("expected error on field %q, got %q (%s)", tt.wantField, herr.Field, herr.Message)
			}
		})
	}
}

func TestValidateLocationHierarchyNamesExpectedParentType(t *testing.T) {
	err := ValidateLocationHierarchy(LocationTypeCity, &Location{Type: LocationTypeDistrict})
	var herr *HierarchyError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HierarchyError, got %v", err)
	}
	want := "the parent of a 'شهر' must be of type 'شهرستان', but the given parent is of type 'منطقه'"
	if herr.Message != want {
		t.Errorf("unexpected message:\n got %q\nwant %q", herr.Message, want)
	}
}

func TestSyncRoleFlags(t *testing.T) {
	var u User

	u.SyncRoleFlags(&Role{Name: "Admin"})
	if !u.IsStaff || !u.IsSuperuser {
		t.Error("Admin role should grant staff and superuser")
	}

	u.SyncRoleFlags(&Role{Name: "Pharmacist"})
	if u.IsStaff || u.IsSuperuser {
		t.Error("non-Admin role should revoke staff and superuser")
	}

	u.IsStaff = true
	u.IsSuperuser = true
	u.SyncRoleFlags(nil)
	if u.IsStaff || u.IsSuperuser {
		t.Error("clearing the role should revoke staff and superuser")
	}
}

func TestIsAdminOrSuperuser(t *testing.T) {
	admin := User{Role: &Role{Name: "Admin"}}
	if !admin.IsAdminOrSuperuser() {
		t.Error("Admin role should be recognized")
	}

	super := User{IsSuperuser: true}
	if !super.IsAdminOrSuperuser() {
		t.Error("superuser flag should be recognized")
	}

	plain := User{Role: &Role{Name: "Pharmacist"}}
	if plain.IsAdminOrSuperuser() {
		t.Error("other roles should not be recognized")
	}
}
