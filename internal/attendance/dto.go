package attendance

import (
	"errors"
	"fmt"
	"time"

	attendanceDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/attendance"
)

type MarkEntryDTO struct {
	StudentID int64  `json:"student_id"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
}

// MarkSheetDTO carries a whole class sheet for one day. Re-submitting the
// same sheet overwrites earlier marks for the same students.
type MarkSheetDTO struct {
	ClassID int64          `json:"class_id"`
	AttDate string         `json:"att_date"`
	Entries []MarkEntryDTO `json:"entries"`
}

func (dto MarkSheetDTO) Validate() error {
	if dto.ClassID <= 0 {
		return errors.New("class id is required")
	}
	if _, err := time.Parse(DateLayout, dto.AttDate); err != nil {
		return fmt.Errorf("att_date must be formatted as %s", DateLayout)
	}
	if len(dto.Entries) == 0 {
		return errors.New("at least one entry is required")
	}
	seen := make(map[int64]bool, len(dto.Entries))
	for _, e := range dto.Entries {
		if e.StudentID <= 0 {
			return errors.New("entry student id is required")
		}
		if !attendanceDatamodel.ValidStatus(e.Status) {
			return fmt.Errorf("invalid status %q", e.Status)
		}
		if seen[e.StudentID] {
			return fmt.Errorf("duplicate entry for student %d", e.StudentID)
		}
		seen[e.StudentID] = true
	}
	return nil
}

// Date returns the parsed day. Call Validate first.
func (dto MarkSheetDTO) Date() time.Time {
	t, _ := time.Parse(DateLayout, dto.AttDate)
	return t
}

type HistoryResponse struct {
	StudentID int64     `json:"student_id"`
	Records   []*Record `json:"records"`
}

type MarkSheetResponse struct {
	ClassID int64  `json:"class_id"`
	AttDate string `json:"att_date"`
	Marked  int    `json:"marked"`
}
