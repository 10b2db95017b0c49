package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день и имеет приоритет над from/to.
func ToServiceRequest(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		// Парсим границы периода если указаны
		if fromStr := query.Get("from"); fromStr != "" {
			from, err := time.Parse(domain.DateFormat, fromStr)
			if err != nil {
				return nil, fmt.Errorf("invalid from: %w", err)
			}
			req.StartDate = &from
		}
		if toStr := query.Get("to"); toStr != "" {
			to, err := time.Parse(domain.DateFormat, toStr)
			if err != nil {
				return nil, fmt.Errorf("invalid to: %w", err)
			}
			req.EndDate = &to
		}
	}

	staffID, err := parseOptionalID(query.Get("staffId"))
	if err != nil {
		return nil, fmt.Errorf("invalid staffId: %w", err)
	}
	req.StaffID = staffID

	clientID, err := parseOptionalID(query.Get("clientId"))
	if err != nil {
		return nil, fmt.Errorf("invalid clientId: %w", err)
	}
	req.ClientID = clientID

	if statusStr := query.Get("status"); statusStr != "" {
		req.Status = &statusStr
	}

	if includeStr := query.Get("includeCancelled"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}

func parseOptionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("id must be positive, got %d", id)
	}
	return &id, nil
}
