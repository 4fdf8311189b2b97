package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/metahome/school-backend/internal/logger"
	"github.com/metahome/school-backend/internal/types"
)

type StudentRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Student, error)
	GetBySchoolID(ctx context.Context, tx *gorm.DB, schoolID string) (*types.Student, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Student, error)
	GetWithNoCourses(ctx context.Context, tx *gorm.DB) ([]*types.Student, error)
	Save(ctx context.Context, tx *gorm.DB, student *types.Student) (*types.Student, error)
	Delete(ctx context.Context, tx *gorm.DB, student *types.Student) error
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	repoLog := baseLog.With("repo", "StudentRepo")
	return &studentRepo{db: db, log: repoLog}
}

func (sr *studentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Student
	if err := transaction.WithContext(ctx).
		Preload("Courses").
		First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *studentRepo) GetBySchoolID(ctx context.Context, tx *gorm.DB, schoolID string) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Student
	if err := transaction.WithContext(ctx).
		Preload("Courses").
		Where("school_id = ?", schoolID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *studentRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Student
	if err := transaction.WithContext(ctx).
		Preload("Courses").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *studentRepo) GetWithNoCourses(ctx context.Context, tx *gorm.DB) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Student
	if err := transaction.WithContext(ctx).
		Where("id NOT IN (SELECT student_id FROM student_course)").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Save persists the student's scalar fields and then replaces its
// student_course rows with the given Courses set. The replace is the only
// write path for enrollment rows from the student side.
func (sr *studentRepo) Save(ctx context.Context, tx *gorm.DB, student *types.Student) (*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	courses := student.Courses
	if err := transaction.WithContext(ctx).
		Omit("Courses").
		Save(student).Error; err != nil {
		return nil, err
	}
	if err := transaction.WithContext(ctx).
		Model(student).
		Association("Courses").
		Replace(courses); err != nil {
		return nil, err
	}
	student.Courses = courses
	return student, nil
}

func (sr *studentRepo) Delete(ctx context.Context, tx *gorm.DB, student *types.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).
		Model(student).
		Association("Courses").
		Clear(); err != nil {
		return err
	}
	return transaction.WithContext(ctx).Delete(student).Error
}
