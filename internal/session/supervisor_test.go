package session

import (
	"sync/atomic"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Supervisor", func() {
	var (
		storage *MemoryStorage
		store   *Store
		sv      *Supervisor
		fired   *int32
	)

	ginkgo.BeforeEach(func() {
		storage = NewMemoryStorage()
		store = NewStore(storage, nil)
		sv = NewSupervisor(store, time.Minute, nil)
		fired = new(int32)
		sv.OnSessionExpired(func() { atomic.AddInt32(fired, 1) })
	})

	ginkgo.Context("when the session disappears between ticks", func() {
		ginkgo.It("should fire the callback exactly once", func() {
			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			sv.Start()
			defer sv.Stop()

			store.ClearSession()

			sv.tick()
			gomega.Expect(atomic.LoadInt32(fired)).To(gomega.Equal(int32(1)))

			// no further change: a second tick stays silent
			sv.tick()
			gomega.Expect(atomic.LoadInt32(fired)).To(gomega.Equal(int32(1)))
		})

		ginkgo.It("should re-arm after a new login", func() {
			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			sv.Start()
			defer sv.Stop()

			store.ClearSession()
			sv.tick()

			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			sv.tick()

			store.ClearSession()
			sv.tick()

			gomega.Expect(atomic.LoadInt32(fired)).To(gomega.Equal(int32(2)))
		})
	})

	ginkgo.Context("when no session was ever started", func() {
		ginkgo.It("should stay silent", func() {
			sv.Start()
			defer sv.Stop()

			sv.tick()
			sv.tick()

			gomega.Expect(atomic.LoadInt32(fired)).To(gomega.Equal(int32(0)))
		})
	})

	ginkgo.Context("callback registration", func() {
		ginkgo.It("should replace a previously registered callback", func() {
			var second int32
			sv.OnSessionExpired(func() { atomic.AddInt32(&second, 1) })

			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			sv.Start()
			defer sv.Stop()

			store.ClearSession()
			sv.tick()

			gomega.Expect(atomic.LoadInt32(fired)).To(gomega.Equal(int32(0)))
			gomega.Expect(atomic.LoadInt32(&second)).To(gomega.Equal(int32(1)))
		})

		ginkgo.It("should allow nil to silence the supervisor", func() {
			sv.OnSessionExpired(nil)

			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			sv.Start()
			defer sv.Stop()

			store.ClearSession()
			gomega.Expect(func() { sv.tick() }).ToNot(gomega.Panic())
		})
	})

	ginkgo.Context("storage faults mid-flight", func() {
		ginkgo.It("should read a broken store as an expired session", func() {
			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			sv.Start()
			defer sv.Stop()

			storage.FailWith = ErrNotFound
			sv.tick()

			gomega.Expect(atomic.LoadInt32(fired)).To(gomega.Equal(int32(1)))
		})
	})

	ginkgo.Context("lifecycle", func() {
		ginkgo.It("Stop should be idempotent", func() {
			sv.Start()
			sv.Stop()
			gomega.Expect(func() { sv.Stop() }).ToNot(gomega.Panic())
		})

		ginkgo.It("should notice expiry within one interval when running on the ticker", func() {
			fast := NewSupervisor(store, 10*time.Millisecond, nil)
			var count int32
			fast.OnSessionExpired(func() { atomic.AddInt32(&count, 1) })

			gomega.Expect(store.StartSession(sampleSnapshot())).To(gomega.Succeed())
			fast.Start()
			defer fast.Stop()

			store.ClearSession()

			gomega.Eventually(func() int32 {
				return atomic.LoadInt32(&count)
			}, "2s", "5ms").Should(gomega.Equal(int32(1)))

			gomega.Consistently(func() int32 {
				return atomic.LoadInt32(&count)
			}, "100ms", "10ms").Should(gomega.Equal(int32(1)))
		})
	})
})
