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

// MaxCoursesPerStudent caps a student's enrollment set.
const MaxCoursesPerStudent = 5

type StudentService interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Student, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Student, error)
	GetWithNoCourses(ctx context.Context, tx *gorm.DB) ([]*types.Student, error)
	Save(ctx context.Context, tx *gorm.DB, student *types.Student) (Response[types.Student], error)
	Update(ctx context.Context, tx *gorm.DB, id uint, student *types.Student) (Response[types.Student], error)
	Delete(ctx context.Context, tx *gorm.DB, student *types.Student) error
	Register(ctx context.Context, tx *gorm.DB, id uint, courses []*types.Course) (Response[types.Student], error)
}

type studentService struct {
	db          *gorm.DB
	log         *logger.Logger
	studentRepo repos.StudentRepo
	courseRepo  repos.CourseRepo
}

func NewStudentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	studentRepo repos.StudentRepo,
	courseRepo repos.CourseRepo,
) StudentService {
	serviceLog := baseLog.With("service", "StudentService")
	return &studentService{
		db:          db,
		log:         serviceLog,
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
	}
}

func (ss *studentService) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Student, error) {
	return ss.studentRepo.GetAll(ctx, tx)
}

func (ss *studentService) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Student, error) {
	return ss.studentRepo.GetByID(ctx, tx, id)
}

func (ss *studentService) GetWithNoCourses(ctx context.Context, tx *gorm.DB) ([]*types.Student, error) {
	return ss.studentRepo.GetWithNoCourses(ctx, tx)
}

func (ss *studentService) Save(ctx context.Context, tx *gorm.DB, student *types.Student) (Response[types.Student], error) {
	existing, err := ss.studentRepo.GetBySchoolID(ctx, tx, student.SchoolID)
	if err != nil {
		return Response[types.Student]{}, fmt.Errorf("lookup student by school id: %w", err)
	}
	if existing != nil {
		return rejected[types.Student]("A student with school id: " + student.SchoolID + " already exists"), nil
	}

	if len(student.Courses) > MaxCoursesPerStudent {
		return rejected[types.Student]("A student cannot register to more than 5 courses"), nil
	}

	resolved, err := ss.resolveCourses(ctx, tx, student.Courses)
	if err != nil {
		return Response[types.Student]{}, err
	}
	student.Courses = resolved

	saved, err := ss.studentRepo.Save(ctx, tx, student)
	if err != nil {
		ss.log.Error("Save student failed", "error", err, "school_id", student.SchoolID)
		return Response[types.Student]{}, fmt.Errorf("save student: %w", err)
	}
	return accepted(saved), nil
}

func (ss *studentService) Update(ctx context.Context, tx *gorm.DB, id uint, student *types.Student) (Response[types.Student], error) {
	current, err := ss.studentRepo.GetByID(ctx, tx, id)
	if err != nil {
		return Response[types.Student]{}, fmt.Errorf("lookup student by id: %w", err)
	}
	if current == nil {
		return Response[types.Student]{}, fmt.Errorf("student %d: %w", id, apperrors.ErrNotFound)
	}

	existing, err := ss.studentRepo.GetBySchoolID(ctx, tx, student.SchoolID)
	if err != nil {
		return Response[types.Student]{}, fmt.Errorf("lookup student by school id: %w", err)
	}
	if existing != nil && existing.ID != current.ID {
		return rejected[types.Student]("A student with school id: " + student.SchoolID + " already exists"), nil
	}

	if len(student.Courses) > MaxCoursesPerStudent {
		return rejected[types.Student]("A student cannot register to more than 5 courses"), nil
	}

	resolved, err := ss.resolveCourses(ctx, tx, student.Courses)
	if err != nil {
		return Response[types.Student]{}, err
	}
	current.Name = student.Name
	current.SchoolID = student.SchoolID
	current.Courses = resolved

	saved, err := ss.studentRepo.Save(ctx, tx, current)
	if err != nil {
		ss.log.Error("Update student failed", "error", err, "student_id", id)
		return Response[types.Student]{}, fmt.Errorf("update student: %w", err)
	}
	return accepted(saved), nil
}

func (ss *studentService) Delete(ctx context.Context, tx *gorm.DB, student *types.Student) error {
	return ss.studentRepo.Delete(ctx, tx, student)
}

// Register adds courses to a student's enrollment set incrementally. The
// call is all-or-nothing: the first duplicate or unresolvable course rejects
// the whole batch and nothing is persisted. Capacity is checked once against
// the stored set before any course is processed, so a batch larger than the
// remaining headroom can still overshoot the cap; that original behavior is
// kept as-is.
func (ss *studentService) Register(ctx context.Context, tx *gorm.DB, id uint, courses []*types.Course) (Response[types.Student], error) {
	current, err := ss.studentRepo.GetByID(ctx, tx, id)
	if err != nil {
		return Response[types.Student]{}, fmt.Errorf("lookup student by id: %w", err)
	}
	if current == nil {
		return Response[types.Student]{}, fmt.Errorf("student %d: %w", id, apperrors.ErrNotFound)
	}

	if len(current.Courses) >= MaxCoursesPerStudent {
		return rejected[types.Student]("A student cannot register to more than 5 courses"), nil
	}

	for _, course := range courses {
		if enrolledIn(current.Courses, course.Name) {
			return rejected[types.Student]("Student was already registered to course: " + course.Name), nil
		}
		match, err := ss.courseRepo.GetByName(ctx, tx, course.Name)
		if err != nil {
			return Response[types.Student]{}, fmt.Errorf("lookup course by name: %w", err)
		}
		if match == nil {
			return rejected[types.Student]("Cannot find course: " + course.Name), nil
		}
		current.Courses = append(current.Courses, match)
	}

	saved, err := ss.studentRepo.Save(ctx, tx, current)
	if err != nil {
		ss.log.Error("Register student failed", "error", err, "student_id", id)
		return Response[types.Student]{}, fmt.Errorf("register student: %w", err)
	}
	return accepted(saved), nil
}

// enrolledIn reports whether the set already contains a course of that name.
// Register mutates the working set as it goes, so this also catches a
// duplicate inside the request batch itself.
func enrolledIn(courses []*types.Course, name string) bool {
	for _, c := range courses {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (ss *studentService) resolveCourses(ctx context.Context, tx *gorm.DB, submitted []*types.Course) ([]*types.Course, error) {
	resolved := make([]*types.Course, 0, len(submitted))
	seen := make(map[uint]struct{}, len(submitted))
	for _, member := range submitted {
		match, err := ss.courseRepo.GetByName(ctx, tx, member.Name)
		if err != nil {
			return nil, fmt.Errorf("lookup course by name: %w", err)
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
