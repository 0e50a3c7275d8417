package filters

import (
	"net/url"
	"time"

	"gorm.io/gorm"

	"daruyab/internal/database/models"
)

type SearchLogFilter struct {
	User            *int64
	ContactNumber   string
	IPAddress       string
	QueryParams     string
	TimestampAfter  *time.Time
	TimestampBefore *time.Time
}

func ParseSearchLogFilter(q url.Values) (SearchLogFilter, error) {
	var f SearchLogFilter
	var err error

	if f.User, err = idParam(q, "user"); err != nil {
		return f, err
	}
	if f.TimestampAfter, err = datetimeParam(q, "timestamp_after"); err != nil {
		return f, err
	}
	if f.TimestampBefore, err = datetimeParam(q, "timestamp_before"); err != nil {
		return f, err
	}
	f.ContactNumber = stringParam(q, "contact_number")
	f.IPAddress = stringParam(q, "ip_address")
	f.QueryParams = stringParam(q, "query_params")
	return f, nil
}

func (f SearchLogFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.InventorySearchLog{})

	if f.ContactNumber != "" {
		q = q.Joins("JOIN users ON users.id = inventory_search_logs.user_id").
			Where("users.contact_number ILIKE ?", contains(f.ContactNumber))
	}
	if f.User != nil {
		q = q.Where("inventory_search_logs.user_id = ?", *f.User)
	}
	if f.IPAddress != "" {
		q = q.Where("inventory_search_logs.ip_address = ?", f.IPAddress)
	}
	if f.QueryParams != "" {
		q = q.Where("inventory_search_logs.query_params ILIKE ?", contains(f.QueryParams))
	}
	if f.TimestampAfter != nil {
		q = q.Where("inventory_search_logs.timestamp >= ?", *f.TimestampAfter)
	}
	if f.TimestampBefore != nil {
		q = q.Where("inventory_search_logs.timestamp <= ?", *f.TimestampBefore)
	}
	return q
}
