package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/metahome/school-backend/internal/logger"
	"github.com/metahome/school-backend/internal/types"
)

type CourseRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Course, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Course, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	GetWithNoStudents(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	Save(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error)
	Delete(ctx context.Context, tx *gorm.DB, course *types.Course) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Course
	if err := transaction.WithContext(ctx).
		Preload("Students").
		First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *courseRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Course
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *courseRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Preload("Students").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) GetWithNoStudents(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Where("id NOT IN (SELECT course_id FROM student_course)").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Save persists the course's scalar fields and then replaces its
// student_course rows with the given Students set. Both repos write the same
// join table, so the two relationship views cannot drift.
func (cr *courseRepo) Save(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	students := course.Students
	if err := transaction.WithContext(ctx).
		Omit("Students").
		Save(course).Error; err != nil {
		return nil, err
	}
	if err := transaction.WithContext(ctx).
		Model(course).
		Association("Students").
		Replace(students); err != nil {
		return nil, err
	}
	course.Students = students
	return course, nil
}

func (cr *courseRepo) Delete(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).
		Model(course).
		Association("Students").
		Clear(); err != nil {
		return err
	}
	return transaction.WithContext(ctx).Delete(course).Error
}
