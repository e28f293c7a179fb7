package student

import (
	"context"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
)

func TestStudent(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Student Module Suite")
}

type mockRepository struct {
	rows   map[int64]*studentDatamodel.Student
	nextID int64
	err    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{rows: make(map[int64]*studentDatamodel.Student), nextID: 1}
}

func (m *mockRepository) GetAll(activeOnly bool) ([]*studentDatamodel.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*studentDatamodel.Student, 0, len(m.rows))
	for _, row := range m.rows {
		if activeOnly && !row.IsActive {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *mockRepository) GetByID(id int64) (*studentDatamodel.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[id], nil
}

func (m *mockRepository) GetByStudentNumber(number string) (*studentDatamodel.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, row := range m.rows {
		if row.StudentNumber == number {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) GetByClass(classID int64) ([]*studentDatamodel.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*studentDatamodel.Student
	for _, row := range m.rows {
		if row.ClassID != nil && *row.ClassID == classID && row.IsActive {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockRepository) Create(s *studentDatamodel.Student) error {
	if m.err != nil {
		return m.err
	}
	s.ID = m.nextID
	m.nextID++
	m.rows[s.ID] = s
	return nil
}

func (m *mockRepository) Update(s *studentDatamodel.Student) error {
	if m.err != nil {
		return m.err
	}
	m.rows[s.ID] = s
	return nil
}

func (m *mockRepository) Delete(id int64) error {
	if m.err != nil {
		return m.err
	}
	if row, ok := m.rows[id]; ok {
		row.IsActive = false
	}
	return nil
}

type mockClassChecker struct {
	known map[int64]bool
}

func (m *mockClassChecker) Exists(classID int64) (bool, error) {
	return m.known[classID], nil
}

type mockAudit struct {
	actions []string
}

func (m *mockAudit) Record(_ context.Context, _ int64, _, action, _ string) {
	m.actions = append(m.actions, action)
}

var _ = ginkgo.Describe("Student Service", func() {
	var (
		repo    *mockRepository
		classes *mockClassChecker
		audit   *mockAudit
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		classes = &mockClassChecker{known: map[int64]bool{1: true}}
		audit = &mockAudit{}
		service = NewService(repo, classes, audit, nil)
		ctx = auth.ContextWithUser(context.Background(), &auth.Snapshot{ID: 5, Username: "registrar"})
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should register an active student", func() {
			s, err := service.Create(ctx, CreateStudentDTO{
				StudentNumber: "S-001",
				FullName:      "Ayu Lestari",
				GuardianName:  "Ibu Lestari",
				GuardianEmail: "guardian@example.com",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(s.IsActive).To(gomega.BeTrue())
			gomega.Expect(audit.actions).To(gomega.ContainElement("CREATE_STUDENT"))
		})

		ginkgo.It("should reject a duplicate student number", func() {
			_, err := service.Create(ctx, CreateStudentDTO{StudentNumber: "S-001", FullName: "Ayu"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Create(ctx, CreateStudentDTO{StudentNumber: "S-001", FullName: "Other"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateStudent))
		})

		ginkgo.It("should reject an unknown class", func() {
			classID := int64(42)
			_, err := service.Create(ctx, CreateStudentDTO{
				StudentNumber: "S-001", FullName: "Ayu", ClassID: &classID,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrClassNotFound))
		})
	})

	ginkgo.Describe("Update", func() {
		var id int64

		ginkgo.BeforeEach(func() {
			classID := int64(1)
			s, err := service.Create(ctx, CreateStudentDTO{
				StudentNumber: "S-001", FullName: "Ayu Lestari", ClassID: &classID,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id = s.ID
		})

		ginkgo.It("should detach a student from their class", func() {
			s, err := service.Update(ctx, id, UpdateStudentDTO{DetachClass: true})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(s.ClassID).To(gomega.BeNil())
		})

		ginkgo.It("should refuse moving to an unknown class", func() {
			classID := int64(42)
			_, err := service.Update(ctx, id, UpdateStudentDTO{ClassID: &classID})

			gomega.Expect(err).To(gomega.Equal(internal.ErrClassNotFound))
		})

		ginkgo.It("should report a missing student", func() {
			_, err := service.Update(ctx, 404, UpdateStudentDTO{})

			gomega.Expect(err).To(gomega.Equal(internal.ErrStudentNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should deactivate rather than remove", func() {
			s, err := service.Create(ctx, CreateStudentDTO{StudentNumber: "S-001", FullName: "Ayu"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(ctx, s.ID)).To(gomega.Succeed())

			gomega.Expect(repo.rows[s.ID].IsActive).To(gomega.BeFalse())

			active, err := service.GetAll(true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(active).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetByClass", func() {
		ginkgo.It("should reject an unknown class", func() {
			_, err := service.GetByClass(42)

			gomega.Expect(err).To(gomega.Equal(internal.ErrClassNotFound))
		})

		ginkgo.It("should only return active members", func() {
			classID := int64(1)
			s1, err := service.Create(ctx, CreateStudentDTO{StudentNumber: "S-001", FullName: "Ayu", ClassID: &classID})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Create(ctx, CreateStudentDTO{StudentNumber: "S-002", FullName: "Budi", ClassID: &classID})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(ctx, s1.ID)).To(gomega.Succeed())

			members, err := service.GetByClass(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(members).To(gomega.HaveLen(1))
			gomega.Expect(members[0].StudentNumber).To(gomega.Equal("S-002"))
		})
	})
})
