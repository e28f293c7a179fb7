package class

import (
	"context"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	classDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/class"
)

func TestClass(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Class Module Suite")
}

type mockRepository struct {
	rows   map[int64]*classDatamodel.Class
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{rows: make(map[int64]*classDatamodel.Class), nextID: 1}
}

func (m *mockRepository) GetAll(activeOnly bool) ([]*classDatamodel.Class, error) {
	out := make([]*classDatamodel.Class, 0, len(m.rows))
	for _, row := range m.rows {
		if activeOnly && !row.IsActive {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *mockRepository) GetByID(id int64) (*classDatamodel.Class, error) {
	return m.rows[id], nil
}

func (m *mockRepository) GetByName(name string) (*classDatamodel.Class, error) {
	for _, row := range m.rows {
		if row.Name == name {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) Create(c *classDatamodel.Class) error {
	c.ID = m.nextID
	m.nextID++
	m.rows[c.ID] = c
	return nil
}

func (m *mockRepository) Update(c *classDatamodel.Class) error {
	m.rows[c.ID] = c
	return nil
}

func (m *mockRepository) Delete(id int64) error {
	if row, ok := m.rows[id]; ok {
		row.IsActive = false
	}
	return nil
}

var _ = ginkgo.Describe("Class Service", func() {
	var (
		repo    *mockRepository
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service = NewService(repo, nil, nil)
		ctx = auth.ContextWithUser(context.Background(), &auth.Snapshot{ID: 5, Username: "registrar"})
	})

	ginkgo.It("should create an active class", func() {
		c, err := service.Create(ctx, CreateClassDTO{Name: "7A", GradeLevel: "7"})

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(c.IsActive).To(gomega.BeTrue())
	})

	ginkgo.It("should reject a duplicate name", func() {
		_, err := service.Create(ctx, CreateClassDTO{Name: "7A"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = service.Create(ctx, CreateClassDTO{Name: "7A"})
		appErr, ok := internal.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeConflict))
	})

	ginkgo.It("should report a deactivated class as not existing", func() {
		c, err := service.Create(ctx, CreateClassDTO{Name: "7A"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(service.Delete(ctx, c.ID)).To(gomega.Succeed())

		exists, err := service.Exists(c.ID)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(exists).To(gomega.BeFalse())
	})

	ginkgo.It("should apply partial updates", func() {
		c, err := service.Create(ctx, CreateClassDTO{Name: "7A", HomeroomTeacher: "Bu Sari"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		teacher := "Pak Dodi"
		updated, err := service.Update(ctx, c.ID, UpdateClassDTO{HomeroomTeacher: &teacher})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(updated.HomeroomTeacher).To(gomega.Equal("Pak Dodi"))
		gomega.Expect(updated.Name).To(gomega.Equal("7A"))
	})

	ginkgo.It("should report a missing class", func() {
		_, err := service.GetByID(404)
		gomega.Expect(err).To(gomega.Equal(internal.ErrClassNotFound))
	})
})
