package service

import "complaint-service/internal/model"

// Action names double as the audit-log action column.
const (
	ActionFile             = "filed"
	ActionFileEmergency    = "filed_emergency"
	ActionValidate         = "validated"
	ActionAssign           = "assigned"
	ActionStartProgress    = "progress_photo_uploaded"
	ActionComplete         = "completion_photo_uploaded"
	ActionRate             = "rated"
	ActionAdminClose       = "admin_closed"
	ActionResolveEmergency = "emergency_resolved"
	ActionEscalate         = "escalated"
	ActionAutoEscalate     = "auto_escalated"
)

// transition pins the single legal (from, to) pair for each action. Every
// status write in the engine goes through a compare-and-swap against the
// `from` of one of these rows; nothing else mutates status.
type transition struct {
	from model.ComplaintStatus
	to   model.ComplaintStatus
}

var transitions = map[string]transition{
	ActionValidate:         {from: model.ComplaintStatusPending, to: model.ComplaintStatusValidated},
	ActionAssign:           {from: model.ComplaintStatusValidated, to: model.ComplaintStatusAssigned},
	ActionStartProgress:    {from: model.ComplaintStatusAssigned, to: model.ComplaintStatusInProgress},
	ActionComplete:         {from: model.ComplaintStatusInProgress, to: model.ComplaintStatusCompleted},
	ActionRate:             {from: model.ComplaintStatusCompleted, to: model.ComplaintStatusResolved},
	ActionAdminClose:       {from: model.ComplaintStatusCompleted, to: model.ComplaintStatusResolved},
	ActionResolveEmergency: {from: model.ComplaintStatusEmergency, to: model.ComplaintStatusResolved},
}

// escalatableFrom are the statuses escalation (manual or scheduled) may leave
// from; the target is always escalated.
var escalatableFrom = []model.ComplaintStatus{
	model.ComplaintStatusValidated,
	model.ComplaintStatusAssigned,
}

// VisibleStatuses maps an admin sub-role to the non-emergency statuses its
// queue shows. Emergencies are visible to every sub-role on top of this.
func VisibleStatuses(p model.Principal) []model.ComplaintStatus {
	switch {
	case p.IsValidator():
		return []model.ComplaintStatus{model.ComplaintStatusPending}
	case p.IsSupervisor():
		return []model.ComplaintStatus{
			model.ComplaintStatusValidated,
			model.ComplaintStatusAssigned,
			model.ComplaintStatusInProgress,
		}
	case p.IsWarden(), p.IsDean():
		return []model.ComplaintStatus{model.ComplaintStatusEscalated}
	default:
		return nil
	}
}

// openStatuses are the non-terminal states surfaced by the duplicate check.
var openStatuses = []model.ComplaintStatus{
	model.ComplaintStatusPending,
	model.ComplaintStatusValidated,
	model.ComplaintStatusAssigned,
	model.ComplaintStatusInProgress,
}
