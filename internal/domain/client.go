package domain

import "time"

// Client is a salon customer, identified by phone number
type Client struct {
	ID            int64
	Name          string
	Phone         string
	Notes         *string
	BookingsCount int        // bookings currently linked to the client, any status
	LastVisit     *time.Time // date of the latest completed booking
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
