package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/metahome/school-backend/internal/logger"
	apperrors "github.com/metahome/school-backend/internal/pkg/errors"
	"github.com/metahome/school-backend/internal/repos"
	"github.com/metahome/school-backend/internal/types"
)

// MaxStudentsPerCourse caps a course roster.
const MaxStudentsPerCourse = 50

type CourseService interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Course, error)
	GetWithNoStudents(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	Save(ctx context.Context, tx *gorm.DB, course *types.Course) (Response[types.Course], error)
	Update(ctx context.Context, tx *gorm.DB, id uint, course *types.Course) (Response[types.Course], error)
	Delete(ctx context.Context, tx *gorm.DB, course *types.Course) error
}

type courseService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	studentRepo repos.StudentRepo
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	studentRepo repos.StudentRepo,
) CourseService {
	serviceLog := baseLog.With("service", "CourseService")
	return &courseService{
		db:          db,
		log:         serviceLog,
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
	}
}

func (cs *courseService) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	return cs.courseRepo.GetAll(ctx, tx)
}

func (cs *courseService) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Course, error) {
	return cs.courseRepo.GetByID(ctx, tx, id)
}

func (cs *courseService) GetWithNoStudents(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	return cs.courseRepo.GetWithNoStudents(ctx, tx)
}

// Save validates and persists a new course. The capacity check runs against
// the submitted set before reconciliation, so an oversized submission is
// rejected even when some of its members would not resolve.
func (cs *courseService) Save(ctx context.Context, tx *gorm.DB, course *types.Course) (Response[types.Course], error) {
	existing, err := cs.courseRepo.GetByName(ctx, tx, course.Name)
	if err != nil {
		return Response[types.Course]{}, fmt.Errorf("lookup course by name: %w", err)
	}
	if existing != nil {
		return rejected[types.Course]("A course with name: " + course.Name + " already exists"), nil
	}

	if len(course.Students) > MaxStudentsPerCourse {
		return rejected[types.Course]("A course cannot have to more than 50 students"), nil
	}

	resolved, err := cs.resolveStudents(ctx, tx, course.Students)
	if err != nil {
		return Response[types.Course]{}, err
	}
	course.Students = resolved

	saved, err := cs.courseRepo.Save(ctx, tx, course)
	if err != nil {
		cs.log.Error("Save course failed", "error", err, "name", course.Name)
		return Response[types.Course]{}, fmt.Errorf("save course: %w", err)
	}
	return accepted(saved), nil
}

// Update replaces the stored course's name and enrollment set. Keeping the
// current name is not a conflict; only a different course owning the
// submitted name is.
func (cs *courseService) Update(ctx context.Context, tx *gorm.DB, id uint, course *types.Course) (Response[types.Course], error) {
	current, err := cs.courseRepo.GetByID(ctx, tx, id)
	if err != nil {
		return Response[types.Course]{}, fmt.Errorf("lookup course by id: %w", err)
	}
	if current == nil {
		return Response[types.Course]{}, fmt.Errorf("course %d: %w", id, apperrors.ErrNotFound)
	}

	existing, err := cs.courseRepo.GetByName(ctx, tx, course.Name)
	if err != nil {
		return Response[types.Course]{}, fmt.Errorf("lookup course by name: %w", err)
	}
	if existing != nil && existing.ID != current.ID {
		return rejected[types.Course]("A course with name: " + course.Name + " already exists"), nil
	}

	if len(course.Students) > MaxStudentsPerCourse {
		return rejected[types.Course]("A course cannot have to more than 50 students"), nil
	}

	resolved, err := cs.resolveStudents(ctx, tx, course.Students)
	if err != nil {
		return Response[types.Course]{}, err
	}
	current.Name = course.Name
	current.Students = resolved

	saved, err := cs.courseRepo.Save(ctx, tx, current)
	if err != nil {
		cs.log.Error("Update course failed", "error", err, "course_id", id)
		return Response[types.Course]{}, fmt.Errorf("update course: %w", err)
	}
	return accepted(saved), nil
}

func (cs *courseService) Delete(ctx context.Context, tx *gorm.DB, course *types.Course) error {
	return cs.courseRepo.Delete(ctx, tx, course)
}

// resolveStudents maps a submitted member set onto stored students. Members
// only ever carry the schoolId business key; ids in the submission are never
// trusted. Unresolved members are dropped, resolved ones deduped by id.
func (cs *courseService) resolveStudents(ctx context.Context, tx *gorm.DB, submitted []*types.Student) ([]*types.Student, error) {
	resolved := make([]*types.Student, 0, len(submitted))
	seen := make(map[uint]struct{}, len(submitted))
	for _, member := range submitted {
		match, err := cs.studentRepo.GetBySchoolID(ctx, tx, member.SchoolID)
		if err != nil {
			return nil, fmt.Errorf("lookup student by school id: %w", err)
		}
		if match == nil {
			continue
		}
		if _, dup := seen[match.ID]; dup {
			continue
		}
		seen[match.ID] = struct{}{}
		resolved = append(resolved, match)
	}
	return resolved, nil
}
