package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"complaint-service/internal/model"
	"complaint-service/internal/notify"
	"complaint-service/internal/repository"
)

// ComplaintService is the lifecycle engine. It decides which transitions are
// legal, who may trigger them, and applies each one as a single
// compare-and-swap against the stored status. The upvote aggregator and the
// escalation scheduler route their writes through here as well.
type ComplaintService struct {
	complaints          ComplaintStore
	events              EventStore
	directory           WorkerDirectory
	notifier            notify.Notifier
	defaultDeadlineDays int
	log                 zerolog.Logger
}

func NewComplaintService(
	complaints ComplaintStore,
	events EventStore,
	directory WorkerDirectory,
	notifier notify.Notifier,
	defaultDeadlineDays int,
	log zerolog.Logger,
) *ComplaintService {
	if defaultDeadlineDays <= 0 {
		defaultDeadlineDays = 2
	}
	return &ComplaintService{
		complaints:          complaints,
		events:              events,
		directory:           directory,
		notifier:            notifier,
		defaultDeadlineDays: defaultDeadlineDays,
		log:                 log,
	}
}

type FileComplaintInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Priority    string
}

func (in FileComplaintInput) validate() (model.Category, model.Priority, error) {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Location) == "" {
		return "", "", ErrInvalidInput
	}

	category := model.Category(strings.ToUpper(strings.TrimSpace(in.Category)))
	if !category.Valid() {
		return "", "", ErrInvalidInput
	}

	priority := model.PriorityMedium
	if in.Priority != "" {
		priority = model.Priority(strings.ToLower(strings.TrimSpace(in.Priority)))
		if !priority.Valid() {
			return "", "", ErrInvalidInput
		}
	}

	return category, priority, nil
}

// File creates a complaint on the normal path: status pending, validation
// still ahead of it.
func (s *ComplaintService) File(ctx context.Context, principal model.Principal, input FileComplaintInput) (*model.Complaint, error) {
	if !principal.IsResident() {
		return nil, ErrPermissionDenied
	}

	category, priority, err := input.validate()
	if err != nil {
		return nil, err
	}

	complaint := &model.Complaint{
		UserID:      principal.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Location:    strings.TrimSpace(input.Location),
		Hostel:      principal.Hostel,
		Status:      model.ComplaintStatusPending,
		Priority:    priority,
		IsEmergency: false,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, complaint.ID, ActionFile, &principal.UserID, complaint.Status, complaint.Status, nil)
	return complaint, nil
}

// FileEmergency creates a complaint directly in the emergency state, skipping
// validation and assignment entirely, and fans out the alert.
func (s *ComplaintService) FileEmergency(ctx context.Context, principal model.Principal, input FileComplaintInput) (*model.Complaint, error) {
	if !principal.IsResident() {
		return nil, ErrPermissionDenied
	}

	category, _, err := input.validate()
	if err != nil {
		return nil, err
	}

	complaint := &model.Complaint{
		UserID:      principal.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Location:    strings.TrimSpace(input.Location),
		Hostel:      principal.Hostel,
		Status:      model.ComplaintStatusEmergency,
		Priority:    model.PriorityHigh,
		IsEmergency: true,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, complaint.ID, ActionFileEmergency, &principal.UserID, complaint.Status, complaint.Status, nil)

	if err := s.notifier.PublishEmergency(ctx, complaint); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", complaint.ID.String()).Msg("emergency notification failed")
	}

	return complaint, nil
}

// Validate moves pending -> validated and pins the priority the validator
// chose. Emergencies never sit in pending, so they can never be validated.
func (s *ComplaintService) Validate(ctx context.Context, principal model.Principal, id uuid.UUID, priority model.Priority) (*model.Complaint, error) {
	if !principal.IsValidator() {
		return nil, ErrPermissionDenied
	}
	if priority != model.PriorityMedium && priority != model.PriorityHigh {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	return s.apply(ctx, id, ActionValidate, &principal.UserID, map[string]interface{}{
		"priority":     priority,
		"validated_by": principal.UserID,
		"validated_at": now,
	}, nil)
}

type AssignInput struct {
	WorkerID     uuid.UUID
	DeadlineDays int
}

// Assign moves validated -> assigned, binds the worker and computes the
// deadline the escalation scheduler will hold them to.
func (s *ComplaintService) Assign(ctx context.Context, principal model.Principal, id uuid.UUID, input AssignInput) (*model.Complaint, error) {
	if !principal.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	if input.WorkerID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	exists, err := s.directory.WorkerExists(ctx, input.WorkerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrWorkerNotFound
	}

	deadlineDays := input.DeadlineDays
	if deadlineDays <= 0 {
		deadlineDays = s.defaultDeadlineDays
	}
	deadline := time.Now().UTC().AddDate(0, 0, deadlineDays)

	return s.apply(ctx, id, ActionAssign, &principal.UserID, map[string]interface{}{
		"assigned_to": input.WorkerID,
		"deadline":    deadline,
	}, nil)
}

// UploadProgressPhoto moves assigned -> in_progress. Only the assigned worker
// may trigger it; the photo itself lives in the blob store, we keep the URL.
func (s *ComplaintService) UploadProgressPhoto(ctx context.Context, principal model.Principal, id uuid.UUID, photoURL string) (*model.Complaint, error) {
	if !principal.IsWorker() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(photoURL) == "" {
		return nil, ErrInvalidInput
	}

	if err := s.requireAssignedWorker(ctx, principal, id); err != nil {
		return nil, err
	}

	return s.apply(ctx, id, ActionStartProgress, &principal.UserID, map[string]interface{}{
		"progress_photo_url": photoURL,
	}, nil)
}

// UploadCompletionPhoto moves in_progress -> completed.
func (s *ComplaintService) UploadCompletionPhoto(ctx context.Context, principal model.Principal, id uuid.UUID, photoURL string) (*model.Complaint, error) {
	if !principal.IsWorker() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(photoURL) == "" {
		return nil, ErrInvalidInput
	}

	if err := s.requireAssignedWorker(ctx, principal, id); err != nil {
		return nil, err
	}

	return s.apply(ctx, id, ActionComplete, &principal.UserID, map[string]interface{}{
		"completion_photo_url": photoURL,
	}, nil)
}

func (s *ComplaintService) requireAssignedWorker(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	complaint, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if complaint.AssignedTo == nil || *complaint.AssignedTo != principal.UserID {
		return ErrPermissionDenied
	}
	return nil
}

// ResolveEmergency closes the emergency fast path. Every admin sub-role may
// resolve, not only warden/dean.
func (s *ComplaintService) ResolveEmergency(ctx context.Context, principal model.Principal, id uuid.UUID, notes string) (*model.Complaint, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"resolved_at": now,
	}
	if strings.TrimSpace(notes) != "" {
		fields["resolution_notes"] = notes
	}

	var eventNotes *string
	if strings.TrimSpace(notes) != "" {
		eventNotes = &notes
	}

	return s.apply(ctx, id, ActionResolveEmergency, &principal.UserID, fields, eventNotes)
}

// Close is the admin-side trigger for completed -> resolved, the alternative
// to the filer's rating.
func (s *ComplaintService) Close(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Complaint, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	return s.apply(ctx, id, ActionAdminClose, &principal.UserID, map[string]interface{}{
		"resolved_at": time.Now().UTC(),
	}, nil)
}

// Escalate is the manual path to the escalated state, warden/dean only.
func (s *ComplaintService) Escalate(ctx context.Context, principal model.Principal, id uuid.UUID, escalateTo string) (*model.Complaint, error) {
	if !principal.IsWarden() && !principal.IsDean() {
		return nil, ErrPermissionDenied
	}
	if escalateTo == "" {
		escalateTo = string(model.AdminRoleWarden)
	}
	if escalateTo != string(model.AdminRoleWarden) && escalateTo != string(model.AdminRoleDean) {
		return nil, ErrInvalidInput
	}

	complaint, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	escalated, err := s.escalateFrom(ctx, complaint, complaint.Status, escalateTo, ActionEscalate, &principal.UserID, "manually escalated")
	if err != nil {
		return nil, err
	}
	return escalated, nil
}

// escalateFrom CASes one complaint into escalated from the given status.
func (s *ComplaintService) escalateFrom(ctx context.Context, complaint *model.Complaint, from model.ComplaintStatus, escalateTo, action string, actor *uuid.UUID, note string) (*model.Complaint, error) {
	legal := false
	for _, status := range escalatableFrom {
		if from == status {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrInvalidState
	}

	now := time.Now().UTC()
	ok, err := s.complaints.CompareAndSwapStatus(ctx, complaint.ID, from, model.ComplaintStatusEscalated, map[string]interface{}{
		"escalated_to": escalateTo,
		"escalated_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.swapFailure(ctx, complaint.ID)
	}

	s.recordEvent(ctx, complaint.ID, action, actor, from, model.ComplaintStatusEscalated, &note)

	fresh, err := s.getByID(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.PublishEscalation(ctx, fresh); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", fresh.ID.String()).Msg("escalation notification failed")
	}
	return fresh, nil
}

// EscalateOverdue is the scheduler's tick body: assigned complaints past
// their deadline and validated complaints unassigned past the SLA are forced
// into escalated, one CAS per record. A record that escaped in the meantime
// (or already escalated) fails its CAS and is skipped; per-record store
// errors are logged and the scan continues.
func (s *ComplaintService) EscalateOverdue(ctx context.Context, validationSLA time.Duration) (int, error) {
	now := time.Now().UTC()

	overdue, err := s.complaints.ListAssignedPastDeadline(ctx, now)
	if err != nil {
		return 0, err
	}
	unassigned, err := s.complaints.ListValidatedBefore(ctx, now.Add(-validationSLA))
	if err != nil {
		return 0, err
	}

	escalated := 0
	for i := range overdue {
		c := &overdue[i]
		if _, err := s.escalateFrom(ctx, c, model.ComplaintStatusAssigned, string(model.AdminRoleWarden), ActionAutoEscalate, nil, "deadline exceeded"); err != nil {
			if !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrNotFound) {
				s.log.Warn().Err(err).Str("complaint_id", c.ID.String()).Msg("auto-escalation failed")
			}
			continue
		}
		escalated++
	}
	for i := range unassigned {
		c := &unassigned[i]
		if _, err := s.escalateFrom(ctx, c, model.ComplaintStatusValidated, string(model.AdminRoleWarden), ActionAutoEscalate, nil, "not assigned within SLA"); err != nil {
			if !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrNotFound) {
				s.log.Warn().Err(err).Str("complaint_id", c.ID.String()).Msg("auto-escalation failed")
			}
			continue
		}
		escalated++
	}

	return escalated, nil
}

// Get returns one complaint with the caller's visibility enforced: residents
// see their own, workers their tasks, admins everything.
func (s *ComplaintService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case principal.IsAdmin():
		return complaint, nil
	case principal.IsResident() && complaint.UserID == principal.UserID:
		return complaint, nil
	case principal.IsWorker() && complaint.AssignedTo != nil && *complaint.AssignedTo == principal.UserID:
		return complaint, nil
	default:
		return nil, ErrPermissionDenied
	}
}

// ListForPrincipal is the role-gated listing. Admins get every emergency
// record first (all sub-roles see those), then their sub-role's queue.
func (s *ComplaintService) ListForPrincipal(ctx context.Context, principal model.Principal) ([]model.Complaint, error) {
	switch {
	case principal.IsResident():
		userID := principal.UserID
		return s.complaints.List(ctx, repository.ComplaintListFilter{UserID: &userID})
	case principal.IsWorker():
		workerID := principal.UserID
		return s.complaints.List(ctx, repository.ComplaintListFilter{AssignedTo: &workerID})
	case principal.IsAdmin():
		emergency := true
		emergencies, err := s.complaints.List(ctx, repository.ComplaintListFilter{IsEmergency: &emergency})
		if err != nil {
			return nil, err
		}

		visible := VisibleStatuses(principal)
		if len(visible) == 0 {
			return emergencies, nil
		}

		regular := false
		queue, err := s.complaints.List(ctx, repository.ComplaintListFilter{
			Statuses:    visible,
			IsEmergency: &regular,
		})
		if err != nil {
			return nil, err
		}
		return append(emergencies, queue...), nil
	default:
		return nil, ErrPermissionDenied
	}
}

// History returns the transition log of one complaint, admins only.
func (s *ComplaintService) History(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.ComplaintEvent, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if _, err := s.getByID(ctx, id); err != nil {
		return nil, err
	}
	return s.events.ListByComplaintID(ctx, id)
}

// DashboardStats is the per-sub-role queue summary.
type DashboardStats struct {
	Role              model.AdminRole `json:"role"`
	PendingValidation int             `json:"pending_validation,omitempty"`
	PendingAssignment int             `json:"pending_assignment,omitempty"`
	Assigned          int             `json:"assigned,omitempty"`
	InProgress        int             `json:"in_progress,omitempty"`
	Escalated         int             `json:"escalated,omitempty"`
	OpenEmergencies   int             `json:"open_emergencies"`
}

func (s *ComplaintService) Dashboard(ctx context.Context, principal model.Principal) (*DashboardStats, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	stats := &DashboardStats{Role: principal.AdminRole}

	count := func(statuses ...model.ComplaintStatus) (int, error) {
		list, err := s.complaints.List(ctx, repository.ComplaintListFilter{Statuses: statuses})
		if err != nil {
			return 0, err
		}
		return len(list), nil
	}

	var err error
	switch {
	case principal.IsValidator():
		stats.PendingValidation, err = count(model.ComplaintStatusPending)
	case principal.IsSupervisor():
		if stats.PendingAssignment, err = count(model.ComplaintStatusValidated); err != nil {
			return nil, err
		}
		if stats.Assigned, err = count(model.ComplaintStatusAssigned); err != nil {
			return nil, err
		}
		stats.InProgress, err = count(model.ComplaintStatusInProgress)
	case principal.IsWarden(), principal.IsDean():
		stats.Escalated, err = count(model.ComplaintStatusEscalated)
	}
	if err != nil {
		return nil, err
	}

	stats.OpenEmergencies, err = count(model.ComplaintStatusEmergency)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// apply runs a table transition: one CAS, then the audit row, then a fresh
// read. On CAS failure nothing was written and the error tells the caller
// whether the record was missing or just in the wrong state.
func (s *ComplaintService) apply(ctx context.Context, id uuid.UUID, action string, actor *uuid.UUID, fields map[string]interface{}, notes *string) (*model.Complaint, error) {
	tr, ok := transitions[action]
	if !ok {
		return nil, ErrInvalidState
	}

	applied, err := s.complaints.CompareAndSwapStatus(ctx, id, tr.from, tr.to, fields)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.swapFailure(ctx, id)
	}

	s.recordEvent(ctx, id, action, actor, tr.from, tr.to, notes)
	return s.getByID(ctx, id)
}

// swapFailure distinguishes a missing record from a lost race / wrong state.
func (s *ComplaintService) swapFailure(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getByID(ctx, id); err != nil {
		return err
	}
	return ErrInvalidState
}

func (s *ComplaintService) getByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return complaint, nil
}

// recordEvent appends to the audit log. Best effort: a failed insert is
// logged, the transition itself already happened.
func (s *ComplaintService) recordEvent(ctx context.Context, complaintID uuid.UUID, action string, actor *uuid.UUID, from, to model.ComplaintStatus, notes *string) {
	event := &model.ComplaintEvent{
		ComplaintID: complaintID,
		Action:      action,
		PerformedBy: actor,
		FromStatus:  from,
		ToStatus:    to,
		Notes:       notes,
	}
	if err := s.events.Create(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", complaintID.String()).Str("action", action).Msg("failed to record complaint event")
	}
}
