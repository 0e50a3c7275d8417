package dto

import (
	"encoding/json"
	"testing"
)

func TestOptionalIDDistinguishesNullFromAbsent(t *testing.T) {
	var in LocationInput
	if err := json.Unmarshal([]byte(`{"name":"x"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Parent.Set {
		t.Error("absent field must not count as set")
	}

	in = LocationInput{}
	if err := json.Unmarshal([]byte(`{"parent":null}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Parent.Set || in.Parent.Value != nil {
		t.Errorf("explicit null should be set with a nil value, got %+v", in.Parent)
	}

	in = LocationInput{}
	if err := json.Unmarshal([]byte(`{"parent":3}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Parent.Set || in.Parent.Value == nil || *in.Parent.Value != 3 {
		t.Errorf("numeric parent should be set with its value, got %+v", in.Parent)
	}
}

func TestOptionalIDRejectsNonNumeric(t *testing.T) {
	var in LocationInput
	if err := json.Unmarshal([]byte(`{"parent":"three"}`), &in); err == nil {
		t.Error("expected error for a non-numeric parent")
	}
}
