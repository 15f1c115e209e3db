package model

// DashboardStats is the admin overview: totals plus a per-status
// breakdown of all bookings.
type DashboardStats struct {
	TotalBookings int64            `json:"total_bookings"`
	TotalRooms    int64            `json:"total_rooms"`
	TotalUsers    int64            `json:"total_users"`
	TodayBookings int64            `json:"today_bookings"`
	WeekBookings  int64            `json:"week_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// DailyCount is one point of the booking trend, keyed by calendar day.
type DailyCount struct {
	Day   string `json:"day" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// MonthlyCount is one point of the per-month series: how many bookings
// were requested that month and how many of those were approved.
type MonthlyCount struct {
	Month    string `json:"month"`
	Total    int64  `json:"total"`
	Approved int64  `json:"approved"`
}

type RoomUsage struct {
	RoomID string `json:"room_id" bson:"_id"`
	Count  int64  `json:"count" bson:"count"`
}

type DepartmentUsage struct {
	Department string `json:"department" bson:"_id"`
	Count      int64  `json:"count" bson:"count"`
}
