package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	attendanceDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/attendance"
	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
	"github.com/hasanbasri/attendance-management/internal/core/events"
)

type RepositoryAPI interface {
	UpsertBatch(records []*attendanceDatamodel.Record) error
	GetByClassAndDate(classID int64, date time.Time) ([]*attendanceDatamodel.Record, error)
	GetByStudent(studentID int64, from, to time.Time) ([]*attendanceDatamodel.Record, error)
	CountByStatus(classID int64, from, to time.Time) (map[string]int64, error)
}

// RosterAPI supplies the active members of a class for sheet building.
type RosterAPI interface {
	GetByClass(classID int64) ([]*studentDatamodel.Student, error)
}

type ClassChecker interface {
	Exists(classID int64) (bool, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, userID int64, username, action, details string)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo    RepositoryAPI
	roster  RosterAPI
	classes ClassChecker
	audit   AuditRecorder
	events  EventPublisher
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, roster RosterAPI, classes ClassChecker, audit AuditRecorder, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		roster:  roster,
		classes: classes,
		audit:   audit,
		events:  publisher,
		logger:  logger,
	}
}

func (s *Service) checkClass(classID int64) error {
	if s.classes == nil {
		return nil
	}
	exists, err := s.classes.Exists(classID)
	if err != nil {
		return internal.NewInternalError("failed to verify class", err)
	}
	if !exists {
		return internal.ErrClassNotFound
	}
	return nil
}

// MarkSheet saves a class sheet for one day. The whole batch upserts on
// (student_id, class_id, att_date), so corrections simply overwrite. Absent
// marks fan out as events so notification can reach guardians.
func (s *Service) MarkSheet(ctx context.Context, dto MarkSheetDTO) (*MarkSheetResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if err := s.checkClass(dto.ClassID); err != nil {
		return nil, err
	}

	actor, ok := auth.UserFromContext(ctx)
	if !ok || actor == nil {
		return nil, internal.ErrSessionInvalidated
	}

	day := dto.Date()
	records := make([]*attendanceDatamodel.Record, 0, len(dto.Entries))
	for _, e := range dto.Entries {
		records = append(records, &attendanceDatamodel.Record{
			StudentID: e.StudentID,
			ClassID:   dto.ClassID,
			AttDate:   day,
			Status:    e.Status,
			Note:      e.Note,
			MarkedBy:  actor.ID,
		})
	}

	if err := s.repo.UpsertBatch(records); err != nil {
		s.logger.Error("failed to save attendance sheet", "class_id", dto.ClassID, "att_date", dto.AttDate, "error", err)
		return nil, internal.NewInternalError("failed to save attendance", err)
	}

	if s.events != nil {
		for _, rec := range records {
			if rec.Status == attendanceDatamodel.StatusAbsent {
				_ = s.events.Publish(ctx, events.NewStudentAbsentEvent(rec.StudentID, rec.ClassID, rec.AttDate, rec.Status, actor.ID))
			}
		}
		_ = s.events.Publish(ctx, events.NewAttendanceSavedEvent(dto.ClassID, day, len(records), actor.ID))
	}

	if s.audit != nil {
		s.audit.Record(ctx, actor.ID, actor.Username,
			"MARK_ATTENDANCE",
			fmt.Sprintf("marked %d students for class %d on %s", len(records), dto.ClassID, dto.AttDate))
	}

	s.logger.Info("attendance sheet saved",
		"class_id", dto.ClassID, "att_date", dto.AttDate, "marked", len(records))

	return &MarkSheetResponse{ClassID: dto.ClassID, AttDate: dto.AttDate, Marked: len(records)}, nil
}

// Sheet returns the class roster for a day, merged with any existing marks.
// Unmarked students appear with an empty status.
func (s *Service) Sheet(classID int64, date string) (*Sheet, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("date must be formatted as %s", DateLayout), internal.ErrCodeInvalidDate)
	}

	if err := s.checkClass(classID); err != nil {
		return nil, err
	}

	roster, err := s.roster.GetByClass(classID)
	if err != nil {
		s.logger.Error("failed to load class roster", "class_id", classID, "error", err)
		return nil, internal.NewInternalError("failed to load sheet", err)
	}

	marks, err := s.repo.GetByClassAndDate(classID, day)
	if err != nil {
		s.logger.Error("failed to load attendance marks", "class_id", classID, "error", err)
		return nil, internal.NewInternalError("failed to load sheet", err)
	}

	byStudent := make(map[int64]*attendanceDatamodel.Record, len(marks))
	for _, m := range marks {
		byStudent[m.StudentID] = m
	}

	rows := make([]SheetRow, 0, len(roster))
	for _, st := range roster {
		row := SheetRow{
			StudentID:     st.ID,
			StudentNumber: st.StudentNumber,
			FullName:      st.FullName,
		}
		if m, ok := byStudent[st.ID]; ok {
			row.Status = m.Status
			row.Note = m.Note
		}
		rows = append(rows, row)
	}

	return &Sheet{ClassID: classID, AttDate: date, Rows: rows}, nil
}

// History lists one student's records over an inclusive date range.
func (s *Service) History(studentID int64, from, to string) (*HistoryResponse, error) {
	fromDay, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("from must be formatted as %s", DateLayout), internal.ErrCodeInvalidDate)
	}
	toDay, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("to must be formatted as %s", DateLayout), internal.ErrCodeInvalidDate)
	}
	if toDay.Before(fromDay) {
		return nil, internal.NewValidationError("to must not precede from", internal.ErrCodeInvalidDate)
	}

	rows, err := s.repo.GetByStudent(studentID, fromDay, toDay)
	if err != nil {
		s.logger.Error("failed to load attendance history", "student_id", studentID, "error", err)
		return nil, internal.NewInternalError("failed to load history", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromDataModel(row))
	}
	return &HistoryResponse{StudentID: studentID, Records: records}, nil
}

// Summarize aggregates per-status counts for a class over a range.
func (s *Service) Summarize(classID int64, from, to string) (*Summary, error) {
	fromDay, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("from must be formatted as %s", DateLayout), internal.ErrCodeInvalidDate)
	}
	toDay, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("to must be formatted as %s", DateLayout), internal.ErrCodeInvalidDate)
	}

	if err := s.checkClass(classID); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(classID, fromDay, toDay)
	if err != nil {
		s.logger.Error("failed to summarize attendance", "class_id", classID, "error", err)
		return nil, internal.NewInternalError("failed to summarize attendance", err)
	}

	return &Summary{
		ClassID: classID,
		From:    from,
		To:      to,
		Present: counts[attendanceDatamodel.StatusPresent],
		Absent:  counts[attendanceDatamodel.StatusAbsent],
		Late:    counts[attendanceDatamodel.StatusLate],
		Excused: counts[attendanceDatamodel.StatusExcused],
	}, nil
}
