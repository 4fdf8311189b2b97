package types

type Course struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;uniqueIndex;not null" json:"name"`
	// Students is the course-side view of the student_course join table.
	// Enrollment rows are written there, never as an independent set.
	Students []*Student `gorm:"many2many:student_course" json:"students,omitempty"`
}

func (Course) TableName() string { return "course" }
