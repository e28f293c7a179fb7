package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	attendanceDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/attendance"
	classDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/class"
	studentDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/student"
	userDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"attendance_records", "students", "classes", "audit_logs", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedUsers(db)
		seedClassesAndStudents(db)
	},
}

func seedUsers(db *gorm.DB) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := []userDatamodel.User{
		{
			Username:          "admin",
			Email:             "admin@school.local",
			FullName:          "School Administrator",
			PasswordHash:      string(hash),
			Role:              userDatamodel.RoleAdmin,
			Status:            userDatamodel.StatusActive,
			CanTakeAttendance: 1,
			CanManageStudents: 1,
			CanManageClasses:  1,
			CanManageUsers:    1,
			CanDeleteUsers:    1,
			CanResetPasswords: 1,
			CanViewLogs:       1,
			CanSendEmails:     1,
			CanRunBackups:     1,
		},
		{
			Username:          "homeroom",
			Email:             "homeroom@school.local",
			FullName:          "Homeroom Teacher",
			PasswordHash:      string(hash),
			Role:              userDatamodel.RoleStaff,
			Status:            userDatamodel.StatusActive,
			CanTakeAttendance: 1,
			CanSendEmails:     1,
		},
		{
			Username:     "frontdesk",
			Email:        "frontdesk@school.local",
			FullName:     "Front Desk",
			PasswordHash: string(hash),
			Role:         userDatamodel.RoleViewer,
			Status:       userDatamodel.StatusActive,
		},
	}

	for _, u := range users {
		var count int64
		db.Model(&userDatamodel.User{}).Where("username = ?", u.Username).Count(&count)
		if count > 0 {
			fmt.Printf("user %s already exists, skipping\n", u.Username)
			continue
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("failed to seed user %s: %v", u.Username, err)
		}
		fmt.Printf("Seeded user: %s\n", u.Username)
	}
}

func seedClassesAndStudents(db *gorm.DB) {
	classes := []classDatamodel.Class{
		{Name: "7A", GradeLevel: "7", HomeroomTeacher: "Homeroom Teacher", IsActive: true},
		{Name: "7B", GradeLevel: "7", HomeroomTeacher: "Homeroom Teacher", IsActive: true},
		{Name: "8A", GradeLevel: "8", IsActive: true},
	}

	classIDs := make(map[string]int64)
	for _, c := range classes {
		var existing classDatamodel.Class
		err := db.Where("name = ?", c.Name).First(&existing).Error
		if err == nil {
			classIDs[c.Name] = existing.ID
			fmt.Printf("class %s already exists, skipping\n", c.Name)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to look up class %s: %v", c.Name, err)
		}
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("failed to seed class %s: %v", c.Name, err)
		}
		classIDs[c.Name] = c.ID
		fmt.Printf("Seeded class: %s\n", c.Name)
	}

	students := []struct {
		number   string
		name     string
		class    string
		guardian string
		email    string
	}{
		{"S-2026-001", "Aisyah Putri", "7A", "Ibu Putri", "putri.family@mail.com"},
		{"S-2026-002", "Budi Santoso", "7A", "Pak Santoso", "santoso.family@mail.com"},
		{"S-2026-003", "Citra Dewi", "7B", "Ibu Dewi", ""},
		{"S-2026-004", "Dimas Rahman", "8A", "Pak Rahman", "rahman.family@mail.com"},
	}

	for _, s := range students {
		var count int64
		db.Model(&studentDatamodel.Student{}).Where("student_number = ?", s.number).Count(&count)
		if count > 0 {
			fmt.Printf("student %s already exists, skipping\n", s.number)
			continue
		}

		classID := classIDs[s.class]
		row := studentDatamodel.Student{
			StudentNumber: s.number,
			FullName:      s.name,
			ClassID:       &classID,
			GuardianName:  s.guardian,
			GuardianEmail: s.email,
			IsActive:      true,
		}
		if err := db.Create(&row).Error; err != nil {
			log.Fatalf("failed to seed student %s: %v", s.number, err)
		}
		fmt.Printf("Seeded student: %s (%s)\n", s.name, s.number)
	}

	// touch the attendance table so a fresh install fails fast when the
	// migration did not run
	var count int64
	if err := db.Model(&attendanceDatamodel.Record{}).Count(&count).Error; err != nil {
		log.Fatalf("attendance_records table missing, run migrations first: %v", err)
	}

	fmt.Println("Seeding complete")
}
