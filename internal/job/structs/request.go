package structs

import (
	"io"
	"strings"
	"time"
)

// CreateJobBody is the payload of a new job.
type CreateJobBody struct {
	Title           string   `json:"title" form:"title" validate:"required,min=1,max=120"`
	Description     string   `json:"description" form:"description" validate:"max=2000"`
	PickupLocation  string   `json:"pickupLocation" form:"pickupLocation" validate:"required,max=200"`
	DropoffLocation string   `json:"dropoffLocation" form:"dropoffLocation" validate:"required,max=200"`
	Pay             *float64 `json:"pay" form:"pay" validate:"required,gte=0"`
	PickupDate      string   `json:"pickupDate" form:"pickupDate" validate:"rfc3339"`
	Phone           string   `json:"phone" form:"phone" validate:"max=32"`
}

// Payload converts the validated body into job attributes.
func (b *CreateJobBody) Payload() Payload {
	p := Payload{
		Title:           strings.TrimSpace(b.Title),
		Description:     b.Description,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		Phone:           b.Phone,
		PickupDate:      parseDate(b.PickupDate),
	}
	if b.Pay != nil {
		p.Pay = *b.Pay
	}
	return p
}

// UpdateJobBody carries the fields to change; nil fields are left untouched.
type UpdateJobBody struct {
	Title           *string  `json:"title" form:"title" validate:"omitempty,min=1,max=120"`
	Description     *string  `json:"description" form:"description" validate:"omitempty,max=2000"`
	PickupLocation  *string  `json:"pickupLocation" form:"pickupLocation" validate:"omitempty,min=1,max=200"`
	DropoffLocation *string  `json:"dropoffLocation" form:"dropoffLocation" validate:"omitempty,min=1,max=200"`
	Pay             *float64 `json:"pay" form:"pay" validate:"omitempty,gte=0"`
	PickupDate      *string  `json:"pickupDate" form:"pickupDate" validate:"omitempty,rfc3339"`
	Phone           *string  `json:"phone" form:"phone" validate:"omitempty,max=32"`
}

// Merge applies the non-nil fields onto p.
func (b *UpdateJobBody) Merge(p *Payload) {
	if b.Title != nil {
		p.Title = strings.TrimSpace(*b.Title)
	}
	if b.Description != nil {
		p.Description = *b.Description
	}
	if b.PickupLocation != nil {
		p.PickupLocation = *b.PickupLocation
	}
	if b.DropoffLocation != nil {
		p.DropoffLocation = *b.DropoffLocation
	}
	if b.Pay != nil {
		p.Pay = *b.Pay
	}
	if b.PickupDate != nil {
		p.PickupDate = parseDate(*b.PickupDate)
	}
	if b.Phone != nil {
		p.Phone = *b.Phone
	}
}

// Empty reports whether the body changes nothing.
func (b *UpdateJobBody) Empty() bool {
	return b.Title == nil && b.Description == nil && b.PickupLocation == nil &&
		b.DropoffLocation == nil && b.Pay == nil && b.PickupDate == nil && b.Phone == nil
}

// DriverBody names the driver of an assign or deny request.
type DriverBody struct {
	DriverID string `json:"driverId" validate:"required"`
}

// GetByIDsBody lists the jobs to resolve.
type GetByIDsBody struct {
	JobIDs []string `json:"jobIds" validate:"required,max=100"`
}

// ImageUpload is an image received with a create or update request.
type ImageUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
