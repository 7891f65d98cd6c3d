package service

import (
	"slices"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
)

// Event names a lifecycle operation.
type Event string

const (
	EventCreate   Event = "create"
	EventUpdate   Event = "update"
	EventApply    Event = "apply"
	EventAssign   Event = "assign"
	EventDeny     Event = "deny"
	EventComplete Event = "complete"
	EventDelete   Event = "delete"
)

// The transitions below change the snapshot they are given and
// never touch storage. Callers persist the result with a version check.

// applyTo registers userID as an applicant.
func applyTo(j *structs.Job, userID string) error {
	if j.IsOwner(userID) {
		return ecode.Forbidden("the owner cannot apply to their own job")
	}
	if j.HasApplicant(userID) {
		return ecode.Conflicted("already applied to this job")
	}
	if j.IsDenied(userID) {
		return ecode.Conflicted("the owner denied this driver")
	}
	if !j.Status.Open() {
		return ecode.Conflicted("job is already assigned")
	}
	j.Applicants = append(j.Applicants, userID)
	j.Status = structs.StatusApplied
	return nil
}

// assign selects driverID as the single assignee.
func assign(j *structs.Job, callerID, driverID, policy string) error {
	if !j.IsOwner(callerID) {
		return ecode.Forbidden("only the owner may assign a driver")
	}
	if !j.Status.Open() {
		return ecode.State("job is already " + string(j.Status))
	}
	if j.IsOwner(driverID) {
		return ecode.Validation("the owner cannot be assigned to their own job")
	}
	if j.IsDenied(driverID) {
		return ecode.Conflicted("the owner denied this driver")
	}
	if policy != config.AssignAny && !j.HasApplicant(driverID) {
		return ecode.NotFound("driver is not an applicant of this job")
	}
	id := driverID
	j.AssignedDriverID = &id
	j.Status = structs.StatusAssigned
	return nil
}

// deny moves driverID from the applicants to the denied drivers, for good.
// The status label is left as is. Once assigned, only applicants other than
// the assignee can be removed.
func deny(j *structs.Job, callerID, driverID string) error {
	if !j.IsOwner(callerID) {
		return ecode.Forbidden("only the owner may deny a driver")
	}
	if j.Status == structs.StatusCompleted {
		return ecode.State("job is already completed")
	}
	if j.IsAssignee(driverID) {
		return ecode.State("the assigned driver cannot be denied")
	}
	i := slices.Index(j.Applicants, driverID)
	if i < 0 {
		return ecode.NotFound("driver is not an applicant of this job")
	}
	j.Applicants = slices.Delete(j.Applicants, i, i+1)
	j.DeniedDrivers = append(j.DeniedDrivers, driverID)
	return nil
}

// complete marks an assigned job as finished at now.
func complete(j *structs.Job, callerID string, now time.Time) error {
	if !j.IsOwner(callerID) && !j.IsAssignee(callerID) {
		return ecode.Forbidden("only the owner or the assigned driver may complete the job")
	}
	if j.Status != structs.StatusAssigned {
		return ecode.State("job is not assigned")
	}
	t := now
	j.Status = structs.StatusCompleted
	j.FinishedAt = &t
	return nil
}

// removable checks that callerID may delete the job.
func removable(j *structs.Job, callerID string) error {
	if !j.IsOwner(callerID) {
		return ecode.Forbidden("only the owner may delete the job")
	}
	if j.Status == structs.StatusCompleted {
		return ecode.State("a completed job cannot be deleted")
	}
	return nil
}

// editable checks that callerID may change the job payload.
func editable(j *structs.Job, callerID string) error {
	if !j.IsOwner(callerID) {
		return ecode.Forbidden("only the owner may update the job")
	}
	return nil
}
