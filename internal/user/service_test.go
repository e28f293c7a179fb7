package user

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hasanbasri/attendance-management/internal"
	"github.com/hasanbasri/attendance-management/internal/auth"
	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockRepository struct {
	rows   map[int64]*userDatamodel.User
	nextID int64
	err    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{rows: make(map[int64]*userDatamodel.User), nextID: 1}
}

func (m *mockRepository) GetAll() ([]*userDatamodel.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*userDatamodel.User, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, nil
}

func (m *mockRepository) GetByID(id int64) (*userDatamodel.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[id], nil
}

func (m *mockRepository) GetByUsername(username string) (*userDatamodel.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, row := range m.rows {
		if row.Username == username {
			return row, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) Create(u *userDatamodel.User) error {
	if m.err != nil {
		return m.err
	}
	u.ID = m.nextID
	m.nextID++
	m.rows[u.ID] = u
	return nil
}

func (m *mockRepository) Update(u *userDatamodel.User) error {
	if m.err != nil {
		return m.err
	}
	m.rows[u.ID] = u
	return nil
}

func (m *mockRepository) Delete(id int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.rows, id)
	return nil
}

type mockHasher struct{}

func (mockHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

type auditEntry struct {
	username string
	action   string
	details  string
}

type mockAudit struct {
	entries []auditEntry
}

func (m *mockAudit) Record(_ context.Context, _ int64, username, action, details string) {
	m.entries = append(m.entries, auditEntry{username: username, action: action, details: details})
}

func flagPtr(v bool) *Flag {
	f := Flag(v)
	return &f
}

var _ = ginkgo.Describe("User Service", func() {
	var (
		repo    *mockRepository
		audit   *mockAudit
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		audit = &mockAudit{}
		service = NewService(repo, mockHasher{}, audit, nil)

		actor := &auth.Snapshot{ID: 99, Username: "admin", Role: "admin"}
		ctx = auth.ContextWithUser(context.Background(), actor)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create an active user with hashed password", func() {
			u, err := service.Create(ctx, CreateUserDTO{
				Username: "teacher1",
				Email:    "teacher1@school.local",
				FullName: "First Teacher",
				Password: "secret123",
				Role:     userDatamodel.RoleStaff,
				Flags:    FlagsDTO{CanTakeAttendance: flagPtr(true)},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Status).To(gomega.Equal(userDatamodel.StatusActive))
			gomega.Expect(u.CanTakeAttendance).To(gomega.BeTrue())
			gomega.Expect(repo.rows[u.ID].PasswordHash).To(gomega.Equal("hashed:secret123"))
		})

		ginkgo.It("should reject a duplicate username", func() {
			_, err := service.Create(ctx, CreateUserDTO{
				Username: "teacher1", FullName: "First", Password: "secret123", Role: userDatamodel.RoleStaff,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Create(ctx, CreateUserDTO{
				Username: "teacher1", FullName: "Second", Password: "secret123", Role: userDatamodel.RoleStaff,
			})
			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateUsername))
		})

		ginkgo.It("should reject invalid payloads before touching the store", func() {
			_, err := service.Create(ctx, CreateUserDTO{Username: "x", FullName: "X", Password: "short", Role: "staff"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(repo.rows).To(gomega.BeEmpty())
		})

		ginkgo.It("should write an audit entry without password material", func() {
			_, err := service.Create(ctx, CreateUserDTO{
				Username: "teacher1", FullName: "First", Password: "secret123", Role: userDatamodel.RoleStaff,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(audit.entries).To(gomega.HaveLen(1))
			gomega.Expect(audit.entries[0].action).To(gomega.Equal("CREATE_USER"))
			gomega.Expect(audit.entries[0].details).ToNot(gomega.ContainSubstring("secret123"))
		})
	})

	ginkgo.Describe("Update", func() {
		var id int64

		ginkgo.BeforeEach(func() {
			u, err := service.Create(ctx, CreateUserDTO{
				Username: "teacher1", FullName: "First Teacher", Password: "secret123", Role: userDatamodel.RoleStaff,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id = u.ID
		})

		ginkgo.It("should apply only the provided fields", func() {
			newName := "Renamed Teacher"
			u, err := service.Update(ctx, id, UpdateUserDTO{FullName: &newName})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.FullName).To(gomega.Equal("Renamed Teacher"))
			gomega.Expect(u.Username).To(gomega.Equal("teacher1"))
			gomega.Expect(u.Role).To(gomega.Equal(userDatamodel.RoleStaff))
		})

		ginkgo.It("should flip capability flags to 0/1 columns", func() {
			_, err := service.Update(ctx, id, UpdateUserDTO{
				Flags: FlagsDTO{CanRunBackups: flagPtr(true), CanTakeAttendance: flagPtr(false)},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.rows[id].CanRunBackups).To(gomega.Equal(int16(1)))
			gomega.Expect(repo.rows[id].CanTakeAttendance).To(gomega.Equal(int16(0)))
		})

		ginkgo.It("should deactivate an account via status", func() {
			inactive := userDatamodel.StatusInactive
			u, err := service.Update(ctx, id, UpdateUserDTO{Status: &inactive})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.IsActiveUser()).To(gomega.BeFalse())
		})

		ginkgo.It("should report a missing user", func() {
			_, err := service.Update(ctx, 404, UpdateUserDTO{})

			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("ResetPassword", func() {
		var id int64

		ginkgo.BeforeEach(func() {
			u, err := service.Create(ctx, CreateUserDTO{
				Username: "teacher1", FullName: "First Teacher", Password: "secret123", Role: userDatamodel.RoleStaff,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id = u.ID
			audit.entries = nil
		})

		ginkgo.It("should replace the stored hash", func() {
			err := service.ResetPassword(ctx, id, ResetPasswordDTO{NewPassword: "newsecret"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.rows[id].PasswordHash).To(gomega.Equal("hashed:newsecret"))
		})

		ginkgo.It("should audit the reset without the new password", func() {
			err := service.ResetPassword(ctx, id, ResetPasswordDTO{NewPassword: "newsecret"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(audit.entries).To(gomega.HaveLen(1))
			gomega.Expect(audit.entries[0].action).To(gomega.Equal("RESET_PASSWORD"))
			gomega.Expect(audit.entries[0].details).ToNot(gomega.ContainSubstring("newsecret"))
		})

		ginkgo.It("should reject short passwords", func() {
			err := service.ResetPassword(ctx, id, ResetPasswordDTO{NewPassword: "short"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("Delete", func() {
		var id int64

		ginkgo.BeforeEach(func() {
			u, err := service.Create(ctx, CreateUserDTO{
				Username: "teacher1", FullName: "First Teacher", Password: "secret123", Role: userDatamodel.RoleStaff,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			id = u.ID
		})

		ginkgo.It("should remove the account", func() {
			err := service.Delete(ctx, id)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.rows).ToNot(gomega.HaveKey(id))
		})

		ginkgo.It("should refuse to delete the calling account", func() {
			selfCtx := auth.ContextWithUser(context.Background(), &auth.Snapshot{ID: id, Username: "teacher1"})

			err := service.Delete(selfCtx, id)

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(repo.rows).To(gomega.HaveKey(id))
		})

		ginkgo.It("should report a missing user", func() {
			err := service.Delete(ctx, 404)

			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("Flag decoding", func() {
		ginkgo.It("should accept integer truthy values from legacy clients", func() {
			var dto UpdateUserDTO
			err := json.Unmarshal([]byte(`{"flags":{"can_take_attendance":1,"can_view_logs":0}}`), &dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bool(*dto.Flags.CanTakeAttendance)).To(gomega.BeTrue())
			gomega.Expect(bool(*dto.Flags.CanViewLogs)).To(gomega.BeFalse())
		})

		ginkgo.It("should reject arbitrary strings", func() {
			var dto UpdateUserDTO
			err := json.Unmarshal([]byte(`{"flags":{"can_take_attendance":"yes"}}`), &dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Serialization", func() {
		ginkgo.It("should never expose the password hash", func() {
			u, err := service.Create(ctx, CreateUserDTO{
				Username: "teacher1", FullName: "First Teacher", Password: "secret123", Role: userDatamodel.RoleStaff,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			data, err := json.Marshal(u)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(string(data)).ToNot(gomega.ContainSubstring("secret123"))
			gomega.Expect(string(data)).ToNot(gomega.ContainSubstring("hashed:"))
			gomega.Expect(string(data)).ToNot(gomega.ContainSubstring("password"))
		})
	})
})
