package notification

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hasanbasri/attendance-management/internal/auth"
	attendanceDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/attendance"
	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
	"github.com/hasanbasri/attendance-management/internal/core/events"
)

func TestNotification(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Notification Module Suite")
}

type mockStudents struct {
	byID    map[int64]*studentDatamodel.Student
	byClass map[int64][]*studentDatamodel.Student
}

func (m *mockStudents) GetByID(id int64) (*studentDatamodel.Student, error) {
	return m.byID[id], nil
}

func (m *mockStudents) GetByClass(classID int64) ([]*studentDatamodel.Student, error) {
	return m.byClass[classID], nil
}

type mockAudit struct {
	actions []string
}

func (m *mockAudit) Record(_ context.Context, _ int64, _, action, _ string) {
	m.actions = append(m.actions, action)
}

var _ = ginkgo.Describe("Notification Service", func() {
	var (
		mailer   *ConsoleMailer
		students *mockStudents
		audit    *mockAudit
		service  *Service
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		mailer = NewConsoleMailer(nil)
		withGuardian := &studentDatamodel.Student{
			ID: 1, StudentNumber: "S-001", FullName: "Ayu Lestari",
			GuardianName: "Ibu Lestari", GuardianEmail: "lestari@example.com", IsActive: true,
		}
		withoutGuardian := &studentDatamodel.Student{
			ID: 2, StudentNumber: "S-002", FullName: "Budi Santoso", IsActive: true,
		}
		students = &mockStudents{
			byID: map[int64]*studentDatamodel.Student{1: withGuardian, 2: withoutGuardian},
			byClass: map[int64][]*studentDatamodel.Student{
				1: {withGuardian, withoutGuardian},
			},
		}
		audit = &mockAudit{}
		service = NewService(mailer, students, audit, nil)
		ctx = auth.ContextWithUser(context.Background(), &auth.Snapshot{ID: 5, Username: "office", CanSendEmails: true})
	})

	ginkgo.Describe("HandleStudentAbsent", func() {
		day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

		ginkgo.It("should email the guardian", func() {
			event := events.NewStudentAbsentEvent(1, 1, day, attendanceDatamodel.StatusAbsent, 9)

			gomega.Expect(service.HandleStudentAbsent(ctx, event)).To(gomega.Succeed())

			sent := mailer.Sent()
			gomega.Expect(sent).To(gomega.HaveLen(1))
			gomega.Expect(sent[0].To[0].Address).To(gomega.Equal("lestari@example.com"))
			gomega.Expect(sent[0].Body).To(gomega.ContainSubstring("Ayu Lestari"))
			gomega.Expect(sent[0].Body).To(gomega.ContainSubstring("2026-08-31"))
		})

		ginkgo.It("should skip students without a guardian email", func() {
			event := events.NewStudentAbsentEvent(2, 1, day, attendanceDatamodel.StatusAbsent, 9)

			gomega.Expect(service.HandleStudentAbsent(ctx, event)).To(gomega.Succeed())
			gomega.Expect(mailer.Sent()).To(gomega.BeEmpty())
		})

		ginkgo.It("should skip unknown students", func() {
			event := events.NewStudentAbsentEvent(404, 1, day, attendanceDatamodel.StatusAbsent, 9)

			gomega.Expect(service.HandleStudentAbsent(ctx, event)).To(gomega.Succeed())
			gomega.Expect(mailer.Sent()).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("NotifyClass", func() {
		ginkgo.It("should queue one message per guardian and count skips", func() {
			resp, err := service.NotifyClass(ctx, NotifyClassDTO{
				ClassID: 1, Subject: "Field trip", Body: "The trip is on Friday.",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Queued).To(gomega.Equal(1))
			gomega.Expect(resp.Skipped).To(gomega.Equal(1))
			gomega.Expect(mailer.Sent()).To(gomega.HaveLen(1))
			gomega.Expect(audit.actions).To(gomega.ContainElement("SEND_EMAILS"))
		})

		ginkgo.It("should reject an empty subject", func() {
			_, err := service.NotifyClass(ctx, NotifyClassDTO{ClassID: 1, Body: "text"})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
