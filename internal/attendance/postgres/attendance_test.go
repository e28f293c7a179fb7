package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hasanbasri/attendance-management/internal/attendance"
	attendanceDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/attendance"
)

func TestAttendanceRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AttendanceRepository Suite")
}

type SQLiteRecord struct {
	ID        int64     `gorm:"primaryKey"`
	StudentID int64     `gorm:"column:student_id;not null;uniqueIndex:idx_attendance_day"`
	ClassID   int64     `gorm:"column:class_id;not null;uniqueIndex:idx_attendance_day"`
	AttDate   time.Time `gorm:"column:att_date;not null;uniqueIndex:idx_attendance_day"`
	Status    string    `gorm:"column:status;not null"`
	Note      string    `gorm:"column:note"`
	MarkedBy  int64     `gorm:"column:marked_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteRecord) TableName() string {
	return "attendance_records"
}

var _ = Describe("AttendanceRepository", func() {
	var (
		db   *gorm.DB
		repo attendance.RepositoryAPI
		day  time.Time
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRecord{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewAttendanceRepository(db)
		day = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("UpsertBatch", func() {
		It("should insert a fresh sheet", func() {
			records := []*attendanceDatamodel.Record{
				{StudentID: 1, ClassID: 1, AttDate: day, Status: attendanceDatamodel.StatusPresent, MarkedBy: 9},
				{StudentID: 2, ClassID: 1, AttDate: day, Status: attendanceDatamodel.StatusAbsent, MarkedBy: 9},
			}

			Expect(repo.UpsertBatch(records)).To(Succeed())

			found, err := repo.GetByClassAndDate(1, day)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(2))
		})

		It("should update in place on the day key instead of duplicating", func() {
			Expect(repo.UpsertBatch([]*attendanceDatamodel.Record{
				{StudentID: 1, ClassID: 1, AttDate: day, Status: attendanceDatamodel.StatusAbsent, MarkedBy: 9},
			})).To(Succeed())

			Expect(repo.UpsertBatch([]*attendanceDatamodel.Record{
				{StudentID: 1, ClassID: 1, AttDate: day, Status: attendanceDatamodel.StatusLate, Note: "bus delay", MarkedBy: 10},
			})).To(Succeed())

			found, err := repo.GetByClassAndDate(1, day)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].Status).To(Equal(attendanceDatamodel.StatusLate))
			Expect(found[0].Note).To(Equal("bus delay"))
			Expect(found[0].MarkedBy).To(Equal(int64(10)))
		})

		It("should accept an empty batch", func() {
			Expect(repo.UpsertBatch(nil)).To(Succeed())
		})
	})

	Describe("GetByStudent", func() {
		It("should honor the inclusive range", func() {
			for offset := 0; offset < 5; offset++ {
				d := day.AddDate(0, 0, offset)
				Expect(repo.UpsertBatch([]*attendanceDatamodel.Record{
					{StudentID: 1, ClassID: 1, AttDate: d, Status: attendanceDatamodel.StatusPresent},
				})).To(Succeed())
			}

			found, err := repo.GetByStudent(1, day.AddDate(0, 0, 1), day.AddDate(0, 0, 3))
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(3))
			Expect(found[0].AttDate.Before(found[2].AttDate)).To(BeTrue())
		})
	})

	Describe("CountByStatus", func() {
		It("should group counts per status", func() {
			Expect(repo.UpsertBatch([]*attendanceDatamodel.Record{
				{StudentID: 1, ClassID: 1, AttDate: day, Status: attendanceDatamodel.StatusPresent},
				{StudentID: 2, ClassID: 1, AttDate: day, Status: attendanceDatamodel.StatusPresent},
				{StudentID: 3, ClassID: 1, AttDate: day, Status: attendanceDatamodel.StatusAbsent},
			})).To(Succeed())

			counts, err := repo.CountByStatus(1, day, day)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts[attendanceDatamodel.StatusPresent]).To(Equal(int64(2)))
			Expect(counts[attendanceDatamodel.StatusAbsent]).To(Equal(int64(1)))
		})

		It("should ignore other classes", func() {
			Expect(repo.UpsertBatch([]*attendanceDatamodel.Record{
				{StudentID: 1, ClassID: 2, AttDate: day, Status: attendanceDatamodel.StatusPresent},
			})).To(Succeed())

			counts, err := repo.CountByStatus(1, day, day)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(BeEmpty())
		})
	})
})
