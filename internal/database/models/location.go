package models

import "fmt"

// Persian labels for the four location levels, root first.
const (
	LocationTypeProvince = "استان"
	LocationTypeCounty   = "شهرستان"
	LocationTypeCity     = "شهر"
	LocationTypeDistrict = "منطقه"
)

// requiredParentType maps each non-root level to the only type its parent
// may have.
var requiredParentType = map[string]string{
	LocationTypeDistrict: LocationTypeCity,
	LocationTypeCity:     LocationTypeCounty,
	LocationTypeCounty:   LocationTypeProvince,
}

// HierarchyError is a field-level validation failure of the location tree
// invariant.
type HierarchyError struct {
	Field   string
	Message string
}

func (e *HierarchyError) Error() string {
	return e.Message
}

// ValidateLocationHierarchy decides whether a location of the given type may
// sit under the given parent (nil for a root). Callers validating an update
// must pass the resulting type/parent pair, not just the fields present in
// the request.
func ValidateLocationHierarchy(locType string, parent *Location) error {
	if locType == LocationTypeProvince {
		if parent != nil {
			return &HierarchyError{
				Field:   "parent",
				Message: fmt.Sprintf("a '%s' cannot have a parent", LocationTypeProvince),
			}
		}
		return nil
	}

	required, ok := requiredParentType[locType]
	if !ok {
		return &HierarchyError{
			Field:   "type",
			Message: fmt.Sprintf("unknown location type '%s'", locType),
		}
	}

	if parent == nil {
		return &HierarchyError{
			Field:   "parent",
			Message: fmt.Sprintf("a '%s' must have a parent", locType),
		}
	}

	if parent.Type != required {
		return &HierarchyError{
			Field: "parent",
			Message: fmt.Sprintf("the parent of a '%s' must be of type '%s', but the given parent is of type '%s'",
				locType, required, parent.Type),
		}
	}

	return nil
}
