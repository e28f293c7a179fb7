package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
	"github.com/hasanbasri/attendance-management/internal/core/events"
)

type StudentReader interface {
	GetByID(id int64) (*studentDatamodel.Student, error)
	GetByClass(classID int64) ([]*studentDatamodel.Student, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, userID int64, username, action, details string)
}

type Service struct {
	mailer   Mailer
	students StudentReader
	audit    AuditRecorder
	logger   *slog.Logger
}

func NewService(mailer Mailer, students StudentReader, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		mailer:   mailer,
		students: students,
		audit:    audit,
		logger:   logger,
	}
}

// HandleStudentAbsent is the event-bus subscriber for absence marks. A
// student with no guardian email is skipped silently; the mark itself
// already succeeded.
func (s *Service) HandleStudentAbsent(_ context.Context, event events.Event) error {
	absent, ok := event.(*events.StudentAbsentEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	st, err := s.students.GetByID(absent.StudentID)
	if err != nil {
		return fmt.Errorf("loading student %d: %w", absent.StudentID, err)
	}
	if st == nil || st.GuardianEmail == "" {
		s.logger.Debug("no guardian email for absent student", "student_id", absent.StudentID)
		return nil
	}

	day := absent.AttDate.Format("2006-01-02")
	s.mailer.SendMessages(&Message{
		To:      []mail.Address{{Name: st.GuardianName, Address: st.GuardianEmail}},
		Subject: fmt.Sprintf("Absence notice for %s", st.FullName),
		Body: fmt.Sprintf(
			"Dear %s,\n\n%s was marked absent on %s. If this absence is excused, please inform the school office.\n\nThis is an automated notice.",
			guardianSalutation(st), st.FullName, day),
	})

	s.logger.Info("absence notice queued", "student_id", st.ID, "att_date", day)
	return nil
}

// NotifyClass emails every guardian in a class with a staff-written
// announcement.
func (s *Service) NotifyClass(ctx context.Context, dto NotifyClassDTO) (*NotifyClassResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	roster, err := s.students.GetByClass(dto.ClassID)
	if err != nil {
		s.logger.Error("failed to load class roster for notification", "class_id", dto.ClassID, "error", err)
		return nil, internal.NewInternalError("failed to send notifications", err)
	}

	messages := make([]*Message, 0, len(roster))
	skipped := 0
	for _, st := range roster {
		if st.GuardianEmail == "" {
			skipped++
			continue
		}
		messages = append(messages, &Message{
			To:      []mail.Address{{Name: st.GuardianName, Address: st.GuardianEmail}},
			Subject: dto.Subject,
			Body:    fmt.Sprintf("Dear %s,\n\n%s", guardianSalutation(st), dto.Body),
		})
	}

	s.mailer.SendMessages(messages...)

	if s.audit != nil {
		if actor, ok := auth.UserFromContext(ctx); ok && actor != nil {
			s.audit.Record(ctx, actor.ID, actor.Username, "SEND_EMAILS",
				fmt.Sprintf("emailed %d guardians of class %d", len(messages), dto.ClassID))
		}
	}

	s.logger.Info("class notification queued",
		"class_id", dto.ClassID, "queued", len(messages), "skipped", skipped)

	return &NotifyClassResponse{
		ClassID: dto.ClassID,
		Queued:  len(messages),
		Skipped: skipped,
		SentAt:  time.Now().UTC(),
	}, nil
}

func guardianSalutation(st *studentDatamodel.Student) string {
	if st.GuardianName != "" {
		return st.GuardianName
	}
	return "Parent/Guardian"
}
