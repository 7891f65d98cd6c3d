package structs

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle stage of a job.
type Status string

const (
	StatusPosted    Status = "Posted"
	StatusApplied   Status = "Applied"
	StatusAssigned  Status = "Assigned"
	// StatusDenied is only ever the status of a driver on a job, never of the
	// job itself. See DriverStatus.
	StatusDenied Status = "Denied"
	StatusCompleted Status = "Completed"
)

// Open reports whether the job still takes applicants.
func (s Status) Open() bool {
	return s == StatusPosted || s == StatusApplied
}

// Image is a reference to a stored job image.
type Image struct {
	Key string `json:"key" bson:"key"`
	URL string `json:"url" bson:"url"`
}

// Payload holds the descriptive attributes of a job.
type Payload struct {
	Title           string     `json:"title" bson:"title"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	PickupLocation  string     `json:"pickupLocation" bson:"pickup_location"`
	DropoffLocation string     `json:"dropoffLocation" bson:"dropoff_location"`
	Pay             float64    `json:"pay" bson:"pay"`
	PickupDate      *time.Time `json:"pickupDate,omitempty" bson:"pickup_date,omitempty"`
	Phone           string     `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Job is a posted piece of work and its lifecycle state.
type Job struct {
	ID               string     `json:"id" bson:"-"`
	OwnerID          string     `json:"ownerId" bson:"owner_id"`
	Status           Status     `json:"status" bson:"status"`
	Applicants       []string   `json:"applicants" bson:"applicants"`
	DeniedDrivers    []string   `json:"deniedDrivers" bson:"denied_drivers"`
	AssignedDriverID *string    `json:"assignedDriverId" bson:"assigned_driver_id"`
	Images           []Image    `json:"images" bson:"images"`
	CreatedAt        time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" bson:"updated_at"`
	FinishedAt       *time.Time `json:"finishedAt" bson:"finished_at"`
	Version          int64      `json:"version" bson:"version"`

	Payload `bson:",inline"`
}

// HasApplicant reports whether userID applied to the job.
func (j *Job) HasApplicant(userID string) bool {
	return slices.Contains(j.Applicants, userID)
}

// IsDenied reports whether the owner denied userID on this job.
func (j *Job) IsDenied(userID string) bool {
	return slices.Contains(j.DeniedDrivers, userID)
}

// DriverStatus is the stage of userID's own application. The empty status
// means the user never applied.
func (j *Job) DriverStatus(userID string) Status {
	switch {
	case j.IsDenied(userID):
		return StatusDenied
	case j.IsAssignee(userID):
		if j.Status == StatusCompleted {
			return StatusCompleted
		}
		return StatusAssigned
	case j.HasApplicant(userID):
		return StatusApplied
	}
	return ""
}

// IsOwner reports whether userID created the job.
func (j *Job) IsOwner(userID string) bool {
	return j.OwnerID == userID
}

// IsAssignee reports whether userID is the assigned driver.
func (j *Job) IsAssignee(userID string) bool {
	return j.AssignedDriverID != nil && *j.AssignedDriverID == userID
}

// Clone returns a deep copy so a snapshot can be changed without touching the original.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Applicants = slices.Clone(j.Applicants)
	c.DeniedDrivers = slices.Clone(j.DeniedDrivers)
	c.Images = slices.Clone(j.Images)
	if j.AssignedDriverID != nil {
		id := *j.AssignedDriverID
		c.AssignedDriverID = &id
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	if j.PickupDate != nil {
		t := *j.PickupDate
		c.PickupDate = &t
	}
	return &c
}

// NewID returns a fresh job identifier in the store's native format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a well-formed job identifier.
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
