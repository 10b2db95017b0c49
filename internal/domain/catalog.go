package domain

import "time"

// Service is a bookable salon service
type Service struct {
	ID              int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Staff is a salon employee with personal working hours
type Staff struct {
	ID              int64
	Name            string
	Role            *string
	WorkingHours    WeeklySchedule
	ServicesOffered []int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Offers returns true if the staff member performs every listed service
func (s *Staff) Offers(serviceIDs []int64) bool {
	offered := make(map[int64]struct{}, len(s.ServicesOffered))
	for _, id := range s.ServicesOffered {
		offered[id] = struct{}{}
	}
	for _, id := range serviceIDs {
		if _, ok := offered[id]; !ok {
			return false
		}
	}
	return true
}
