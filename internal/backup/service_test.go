package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hasanbasri/attendance-management/internal/core/events"
)

func TestBackup(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Backup Module Suite")
}

type mockExporter struct {
	data map[string][]byte
	rows map[string]int
	err  map[string]error
}

func (m *mockExporter) ExportTable(_ context.Context, table string) ([]byte, int, error) {
	if err := m.err[table]; err != nil {
		return nil, 0, err
	}
	return m.data[table], m.rows[table], nil
}

type mockPusher struct {
	pushed []string
	err    error
}

func (m *mockPusher) Push(_ context.Context, table string, _ []byte) error {
	if m.err != nil {
		return m.err
	}
	m.pushed = append(m.pushed, table)
	return nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(_ context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

type mockAudit struct {
	entries []string
}

func (m *mockAudit) Record(_ context.Context, _ int64, username, action, _ string) {
	m.entries = append(m.entries, username+":"+action)
}

var _ = ginkgo.Describe("Backup Service", func() {
	var (
		exporter  *mockExporter
		pusher    *mockPusher
		publisher *mockPublisher
		audit     *mockAudit
		service   *Service
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		exporter = &mockExporter{
			data: map[string][]byte{"users": []byte("id\n1\n"), "students": []byte("id\n1\n2\n")},
			rows: map[string]int{"users": 1, "students": 2},
			err:  map[string]error{},
		}
		pusher = &mockPusher{}
		publisher = &mockPublisher{}
		audit = &mockAudit{}
		service = NewService(exporter, pusher, []string{"users", "students"}, audit, publisher, nil)
		ctx = context.Background()
	})

	ginkgo.It("should push every configured table and report totals", func() {
		result, err := service.Run(ctx)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(pusher.pushed).To(gomega.Equal([]string{"users", "students"}))
		gomega.Expect(result.TotalRows).To(gomega.Equal(3))
		gomega.Expect(result.Tables).To(gomega.HaveLen(2))
		gomega.Expect(result.RunID).ToNot(gomega.BeEmpty())
	})

	ginkgo.It("should publish a completed event and audit as the system", func() {
		_, err := service.Run(ctx)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(publisher.published).To(gomega.HaveLen(1))
		gomega.Expect(publisher.published[0].EventType()).To(gomega.Equal(events.EventTypeBackupCompleted))
		gomega.Expect(audit.entries).To(gomega.ConsistOf("system:RUN_BACKUP"))
	})

	ginkgo.It("should abort on the first export failure", func() {
		exporter.err["users"] = errors.New("table locked")

		_, err := service.Run(ctx)

		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(pusher.pushed).To(gomega.BeEmpty())
		gomega.Expect(publisher.published).To(gomega.HaveLen(1))
		gomega.Expect(publisher.published[0].EventType()).To(gomega.Equal(events.EventTypeBackupFailed))
	})

	ginkgo.It("should abort when the push fails", func() {
		pusher.err = errors.New("endpoint unreachable")

		_, err := service.Run(ctx)

		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(publisher.published[0].EventType()).To(gomega.Equal(events.EventTypeBackupFailed))
	})
})
