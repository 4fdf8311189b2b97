package types

type Student struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	SchoolID string    `gorm:"column:school_id;uniqueIndex;not null" json:"schoolId"`
	Name     string    `gorm:"column:name" json:"name"`
	Courses  []*Course `gorm:"many2many:student_course" json:"courses"`
}

func (Student) TableName() string { return "student" }
