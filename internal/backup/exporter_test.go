package backup

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var _ = Describe("Exporter", func() {
	var (
		gormDB   *gorm.DB
		db       *sqlx.DB
		exporter *Exporter
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error

		gormDB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := gormDB.DB()
		Expect(err).NotTo(HaveOccurred())
		db = sqlx.NewDb(sqlDB, "sqlite3")

		_, err = db.Exec(`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			username TEXT,
			password_hash TEXT,
			role TEXT
		)`)
		Expect(err).NotTo(HaveOccurred())

		_, err = db.Exec(`INSERT INTO users (username, password_hash, role) VALUES
			('manager', '$2a$10$secret', 'staff'),
			('viewer', '$2a$10$other', 'viewer')`)
		Expect(err).NotTo(HaveOccurred())

		exporter = NewExporter(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	It("should export headers plus one line per row", func() {
		csvData, rows, err := exporter.ExportTable(ctx, "users")

		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal(2))

		lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(Equal("id,username,password_hash,role"))
	})

	It("should redact password hashes", func() {
		csvData, _, err := exporter.ExportTable(ctx, "users")

		Expect(err).NotTo(HaveOccurred())
		Expect(string(csvData)).NotTo(ContainSubstring("$2a$10$"))
		Expect(string(csvData)).To(ContainSubstring("<redacted>"))
	})

	It("should reject table names that are not identifiers", func() {
		_, _, err := exporter.ExportTable(ctx, "users; DROP TABLE users")

		Expect(err).To(HaveOccurred())
	})

	It("should fail on a missing table", func() {
		_, _, err := exporter.ExportTable(ctx, "nope")

		Expect(err).To(HaveOccurred())
	})
})
