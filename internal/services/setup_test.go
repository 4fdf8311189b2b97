package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/metahome/school-backend/internal/logger"
	"github.com/metahome/school-backend/internal/repos"
	"github.com/metahome/school-backend/internal/types"
)

var testDBSeq atomic.Int64

type testEnv struct {
	db             *gorm.DB
	studentRepo    repos.StudentRepo
	courseRepo     repos.CourseRepo
	studentService StudentService
	courseService  CourseService
}

// newTestEnv opens a fresh in-memory sqlite database and wires the real
// repos and services over it. Each test gets its own named shared-cache DB
// so pooled connections see the same data without leaking between tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(&types.Student{}, &types.Course{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	log := logger.NewNop()
	studentRepo := repos.NewStudentRepo(db, log)
	courseRepo := repos.NewCourseRepo(db, log)

	return &testEnv{
		db:             db,
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		studentService: NewStudentService(db, log, studentRepo, courseRepo),
		courseService:  NewCourseService(db, log, courseRepo, studentRepo),
	}
}

func (env *testEnv) mustCreateStudent(t *testing.T, schoolID, name string, courses ...*types.Course) *types.Student {
	t.Helper()
	resp, err := env.studentService.Save(context.Background(), nil, &types.Student{
		SchoolID: schoolID,
		Name:     name,
		Courses:  courses,
	})
	if err != nil {
		t.Fatalf("create student %s: %v", schoolID, err)
	}
	if resp.Entity == nil {
		t.Fatalf("create student %s rejected: %s", schoolID, resp.Message)
	}
	return resp.Entity
}

func (env *testEnv) mustCreateCourse(t *testing.T, name string, students ...*types.Student) *types.Course {
	t.Helper()
	resp, err := env.courseService.Save(context.Background(), nil, &types.Course{
		Name:     name,
		Students: students,
	})
	if err != nil {
		t.Fatalf("create course %s: %v", name, err)
	}
	if resp.Entity == nil {
		t.Fatalf("create course %s rejected: %s", name, resp.Message)
	}
	return resp.Entity
}

func courseNames(courses []*types.Course) []string {
	names := make([]string, 0, len(courses))
	for _, c := range courses {
		names = append(names, c.Name)
	}
	return names
}
