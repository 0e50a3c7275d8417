package filters

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ValidationError reports a malformed filter value, naming the offending
// query parameter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func stringParam(q url.Values, key string) string {
	return q.Get(key)
}

func boolParam(q url.Values, key string) (*bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Message: fmt.Sprintf("'%s' is not a valid boolean", raw)}
	}
	return &v, nil
}

func idParam(q url.Values, key string) (*int64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &ValidationError{Field: key, Message: fmt.Sprintf("'%s' is not a valid id", raw)}
	}
	return &v, nil
}

func dateParam(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Message: fmt.Sprintf("'%s' is not a valid date (expected YYYY-MM-DD)", raw)}
	}
	return &v, nil
}

func datetimeParam(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return &v, nil
	}
	v, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Message: fmt.Sprintf("'%s' is not a valid datetime", raw)}
	}
	return &v, nil
}

func decimalParam(q url.Values, key string) (*decimal.Decimal, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &ValidationError{Field: key, Message: fmt.Sprintf("'%s' is not a valid number", raw)}
	}
	return &v, nil
}

// contains wraps a term for a case-insensitive partial match.
func contains(term string) string {
	return "%" + term + "%"
}
