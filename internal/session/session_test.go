package session

import (
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hasanbasri/attendance-management/internal/auth"
)

func TestSession(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Session Module Suite")
}

func sampleSnapshot() *auth.Snapshot {
	return &auth.Snapshot{
		ID:                7,
		Username:          "manager",
		Email:             "manager@school.local",
		FullName:          "Site Manager",
		Role:              "staff",
		Status:            "active",
		CanTakeAttendance: true,
		CanManageUsers:    true,
	}
}

var _ = ginkgo.Describe("Store", func() {
	var (
		storage *MemoryStorage
		store   *Store
	)

	ginkgo.BeforeEach(func() {
		storage = NewMemoryStorage()
		store = NewStore(storage, nil)
	})

	ginkgo.Describe("StartSession", func() {
		ginkgo.It("should round-trip the snapshot through CurrentUser", func() {
			snap := sampleSnapshot()

			err := store.StartSession(snap)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			got := store.CurrentUser()
			gomega.Expect(got).ToNot(gomega.BeNil())
			gomega.Expect(got).To(gomega.Equal(snap))
		})

		ginkgo.It("should overwrite any prior session", func() {
			first := sampleSnapshot()
			gomega.Expect(store.StartSession(first)).To(gomega.Succeed())

			second := sampleSnapshot()
			second.ID = 8
			second.Username = "viewer"
			second.CanManageUsers = false
			gomega.Expect(store.StartSession(second)).To(gomega.Succeed())

			got := store.CurrentUser()
			gomega.Expect(got.ID).To(gomega.Equal(int64(8)))
			gomega.Expect(got.Username).To(gomega.Equal("viewer"))
			gomega.Expect(got.CanManageUsers).To(gomega.BeFalse())
		})

		ginkgo.It("should make IsAuthenticated true", func() {
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())

			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())

			gomega.Expect(store.IsAuthenticated()).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ClearSession", func() {
		ginkgo.It("should leave the store unauthenticated regardless of prior state", func() {
			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())

			store.ClearSession()

			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
			gomega.Expect(store.CurrentUser()).To(gomega.BeNil())
		})

		ginkgo.It("should be idempotent", func() {
			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())

			store.ClearSession()
			store.ClearSession()

			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
			gomega.Expect(store.CurrentUser()).To(gomega.BeNil())
		})

		ginkgo.It("should be safe when no session exists", func() {
			store.ClearSession()

			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should remove legacy auxiliary keys", func() {
			gomega.Expect(storage.Set("logged_in", []byte("true"))).To(gomega.Succeed())
			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())

			store.ClearSession()

			_, err := storage.Get("logged_in")
			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})

	ginkgo.Describe("CurrentUser", func() {
		ginkgo.It("should return nil when no session exists", func() {
			gomega.Expect(store.CurrentUser()).To(gomega.BeNil())
		})

		ginkgo.It("should treat corrupt data as absent", func() {
			gomega.Expect(storage.Set(SnapshotKey, []byte("{not json"))).To(gomega.Succeed())

			gomega.Expect(store.CurrentUser()).To(gomega.BeNil())
		})

		ginkgo.It("should keep capability flags as booleans through the round trip", func() {
			snap := sampleSnapshot()
			snap.CanRunBackups = true
			gomega.Expect(store.StartSession(snap)).To(gomega.Succeed())

			got := store.CurrentUser()
			gomega.Expect(got.CanRunBackups).To(gomega.BeTrue())
			gomega.Expect(got.CanDeleteUsers).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("when storage fails", func() {
		ginkgo.BeforeEach(func() {
			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			storage.FailWith = errors.New("storage unavailable")
		})

		ginkgo.It("IsAuthenticated should fail closed", func() {
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("CurrentUser should return nil without panicking", func() {
			gomega.Expect(store.CurrentUser()).To(gomega.BeNil())
		})

		ginkgo.It("ClearSession should not panic", func() {
			gomega.Expect(func() { store.ClearSession() }).ToNot(gomega.Panic())
		})

		ginkgo.It("StartSession should surface the storage error", func() {
			err := store.StartSession(sampleSnapshot())
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
