package model

import (
	"time"
)

// Attachment is an optional document embedded on a booking, carried as a
// base64 payload exactly as the client submitted it.
type Attachment struct {
	Data        string `json:"data" bson:"data"`
	ContentType string `json:"content_type" bson:"content_type"`
	FileName    string `json:"file_name" bson:"file_name"`
}

// Booking occupies a [StartTime, EndTime) window of a room on the calendar
// day of BookingDate. StartTime/EndTime are wall-clock "HH:MM" strings with
// minute granularity; BookingDate carries the day, its time-of-day is
// irrelevant to bucketing.
type Booking struct {
	ID          string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID      string      `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	RoomID      string      `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	FullName    string      `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Department  string      `json:"department" bson:"department" validate:"required,min=1,max=100"`
	BookingDate time.Time   `json:"booking_date" bson:"booking_date" validate:"required"`
	StartTime   string      `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     string      `json:"end_time" bson:"end_time" validate:"required"`
	Purpose     string      `json:"purpose" bson:"purpose" validate:"required,min=2,max=500"`
	Attachment  *Attachment `json:"attachment,omitempty" bson:"attachment,omitempty"`
	Status      string      `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingUpdate carries a partial update; zero values mean "keep the
// stored value". Status changes go through the admin status endpoint,
// not here.
type BookingUpdate struct {
	RoomID      string      `json:"room_id,omitempty" validate:"omitempty,mongodb"`
	FullName    string      `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Department  string      `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	BookingDate *time.Time  `json:"booking_date,omitempty" validate:"omitempty"`
	StartTime   string      `json:"start_time,omitempty"`
	EndTime     string      `json:"end_time,omitempty"`
	Purpose     string      `json:"purpose,omitempty" validate:"omitempty,min=2,max=500"`
	Attachment  *Attachment `json:"attachment,omitempty"`
}

// BookingFilter narrows list queries. Day, when set, selects the calendar
// day bucket computed in the reference timezone.
type BookingFilter struct {
	RoomID string
	UserID string
	Status string
	Day    *time.Time
}
