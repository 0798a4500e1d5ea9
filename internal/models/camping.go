package models

import (
	"fmt"
	"time"
)

// Destination is a camping directory entry, gated by a shared vacation password.
type Destination struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Camping is the header block of CampingInfo.
type Camping struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// CampingInfo is returned to an authenticated vacationer for one destination.
type CampingInfo struct {
	Camping    Camping        `json:"camping"`
	Animations []any          `json:"animations"`
	Services   []any          `json:"services"`
	Activities []ActivityView `json:"activities"`
}

// Activity is a scheduled event organised by a camping.
type Activity struct {
	ID              int64
	Title           string
	Description     *string
	Location        *string
	MaxParticipants *int64
	OrganizerID     int64
	StartDateTime   time.Time
	EndDateTime     time.Time
	Category        ActivityType
}

// ActivityType is the category projection of an activity. All fields are null
// when the activity has no category.
type ActivityType struct {
	ID    *int64  `json:"id"`
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// ActivityView is an Activity enriched for display.
type ActivityView struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  *string      `json:"description"`
	Day          string       `json:"day"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Location     *string      `json:"location"`
	Participants *int64       `json:"participants"`
	Type         ActivityType `json:"type"`
}

// DateRange is an inclusive calendar-day window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DateLayout is the wire format of DateRange bounds.
const DateLayout = "2006-01-02"

// ParseDateRange parses both bounds in DateLayout. It returns nil when either
// bound is empty.
func ParseDateRange(start, end string) (*DateRange, error) {
	if start == "" || end == "" {
		return nil, nil
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q", start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q", end)
	}
	return &DateRange{Start: s, End: e}, nil
}

// StartDay and EndDay format the bounds in DateLayout.
func (r DateRange) StartDay() string { return r.Start.Format(DateLayout) }
func (r DateRange) EndDay() string   { return r.End.Format(DateLayout) }
