package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	auditDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/audit"
)

func TestAudit(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Module Suite")
}

type mockRepository struct {
	inserted []*auditDatamodel.Log
	err      error
}

func (m *mockRepository) Insert(l *auditDatamodel.Log) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, l)
	return nil
}

func (m *mockRepository) List(filter ListFilter) ([]*auditDatamodel.Log, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*auditDatamodel.Log
	for _, l := range m.inserted {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, l)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var _ = ginkgo.Describe("Audit Service", func() {
	var (
		repo    *mockRepository
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{}
		service = NewService(repo, nil)
		ctx = context.Background()
	})

	ginkgo.Describe("Record", func() {
		ginkgo.It("should persist the entry with a timestamp", func() {
			service.Record(ctx, 7, "manager", "LOGIN", "")

			gomega.Expect(repo.inserted).To(gomega.HaveLen(1))
			gomega.Expect(repo.inserted[0].Action).To(gomega.Equal("LOGIN"))
			gomega.Expect(repo.inserted[0].CreatedAt).ToNot(gomega.BeZero())
		})

		ginkgo.It("should swallow store failures", func() {
			repo.err = errors.New("disk full")

			gomega.Expect(func() {
				service.Record(ctx, 7, "manager", "LOGIN", "")
			}).ToNot(gomega.Panic())
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			service.Record(ctx, 7, "manager", "LOGIN", "")
			service.Record(ctx, 7, "manager", "CREATE_USER", "created user x")
			service.Record(ctx, 8, "other", "LOGIN", "")
		})

		ginkgo.It("should filter by action", func() {
			entries, err := service.List(ListFilter{Action: "LOGIN"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(2))
		})

		ginkgo.It("should cap the limit", func() {
			entries, err := service.List(ListFilter{Limit: 1})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(entries).To(gomega.HaveLen(1))
		})
	})
})
