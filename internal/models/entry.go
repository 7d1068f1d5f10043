package models

import "strings"

const (
	EntryTypeClase   = "clase"
	EntryTypeCipa    = "cipa"
	EntryTypeMateria = "materia"
)

// Entry is one recurring academic activity. Column names keep the camelCase
// spelling used by existing entries tables.
type Entry struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name" json:"name"`
	Type        string `gorm:"column:type" json:"type"`
	Day         string `gorm:"column:day" json:"day"`
	StartTime   string `gorm:"column:startTime" json:"startTime"`
	EndTime     string `gorm:"column:endTime" json:"endTime"`
	Email       string `gorm:"column:email" json:"email"`
	SubjectName string `gorm:"column:subjectName" json:"subjectName"`
	FinishDay   string `gorm:"column:finishDay" json:"finishDay"`
	FinishTime  string `gorm:"column:finishTime" json:"finishTime"`
}

func (Entry) TableName() string {
	return "entries"
}

// Anchor returns the day and time that define the entry's next occurrence.
// Subject deadlines are anchored on their finishing day and time.
func (entry Entry) Anchor() (day string, clock string) {
	if entry.IsMateria() {
		return strings.TrimSpace(entry.FinishDay), strings.TrimSpace(entry.FinishTime)
	}
	return strings.TrimSpace(entry.Day), strings.TrimSpace(entry.StartTime)
}

func (entry Entry) IsMateria() bool {
	return entry.Type == EntryTypeMateria
}

// RequiresStartTime reports whether the type is a scheduled session.
func RequiresStartTime(entryType string) bool {
	return entryType == EntryTypeClase || entryType == EntryTypeCipa
}
