package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/metahome/school-backend/internal/pkg/errors"
	"github.com/metahome/school-backend/internal/types"
)

func TestCourseSaveAssignsID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.courseService.Save(ctx, nil, &types.Course{Name: "Course1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Entity == nil {
		t.Fatalf("save rejected: %s", resp.Message)
	}
	if resp.Entity.ID == 0 {
		t.Fatalf("expected a store-assigned id, got 0")
	}
	if resp.Message != "" {
		t.Fatalf("expected empty message, got %q", resp.Message)
	}
}

func TestCourseSaveDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateCourse(t, "Course1")

	resp, err := env.courseService.Save(ctx, nil, &types.Course{Name: "Course1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Entity != nil {
		t.Fatalf("expected rejection, got saved course %d", resp.Entity.ID)
	}
	want := "A course with name: Course1 already exists"
	if resp.Message != want {
		t.Fatalf("message = %q, want %q", resp.Message, want)
	}

	all, err := env.courseRepo.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("rejected save must not persist, have %d courses", len(all))
	}
}

func TestCourseSaveCapacityExceeded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// The capacity check runs against the submitted set before
	// reconciliation, so the members do not need to resolve.
	members := make([]*types.Student, 0, 51)
	for i := 0; i < 51; i++ {
		members = append(members, &types.Student{SchoolID: fmt.Sprintf("S%02d", i)})
	}

	resp, err := env.courseService.Save(ctx, nil, &types.Course{Name: "Course1", Students: members})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Entity != nil {
		t.Fatalf("expected rejection, got saved course")
	}
	want := "A course cannot have to more than 50 students"
	if resp.Message != want {
		t.Fatalf("message = %q, want %q", resp.Message, want)
	}
}

func TestCourseSaveDropsUnresolvedMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateStudent(t, "A", "StudentA")

	resp, err := env.courseService.Save(ctx, nil, &types.Course{
		Name: "Course1",
		Students: []*types.Student{
			{SchoolID: "A"},
			{SchoolID: "does-not-exist"},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Entity == nil {
		t.Fatalf("save rejected: %s", resp.Message)
	}
	if len(resp.Entity.Students) != 1 || resp.Entity.Students[0].SchoolID != "A" {
		t.Fatalf("expected only the resolvable member to be stored, got %+v", resp.Entity.Students)
	}

	stored, err := env.courseRepo.GetByID(ctx, nil, resp.Entity.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(stored.Students) != 1 {
		t.Fatalf("stored enrollment set has %d members, want 1", len(stored.Students))
	}
}

func TestCourseSaveDedupesSubmittedMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateStudent(t, "A", "StudentA")

	resp, err := env.courseService.Save(ctx, nil, &types.Course{
		Name: "Course1",
		Students: []*types.Student{
			{SchoolID: "A"},
			{SchoolID: "A"},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Entity == nil {
		t.Fatalf("save rejected: %s", resp.Message)
	}
	if len(resp.Entity.Students) != 1 {
		t.Fatalf("expected deduped member set, got %d members", len(resp.Entity.Students))
	}
}

func TestCourseUpdateKeepingNameIsNotAConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.mustCreateCourse(t, "Course1")
	env.mustCreateStudent(t, "A", "StudentA")

	resp, err := env.courseService.Update(ctx, nil, course.ID, &types.Course{
		Name:     "Course1",
		Students: []*types.Student{{SchoolID: "A"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Entity == nil {
		t.Fatalf("no-op rename rejected: %s", resp.Message)
	}
	if len(resp.Entity.Students) != 1 {
		t.Fatalf("expected replaced enrollment set of 1, got %d", len(resp.Entity.Students))
	}
}

func TestCourseUpdateNameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCreateCourse(t, "Course1")
	other := env.mustCreateCourse(t, "Course2")

	resp, err := env.courseService.Update(ctx, nil, other.ID, &types.Course{Name: "Course1"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Entity != nil {
		t.Fatalf("expected rejection, got updated course")
	}
	want := "A course with name: Course1 already exists"
	if resp.Message != want {
		t.Fatalf("message = %q, want %q", resp.Message, want)
	}
}

func TestCourseUpdateReplacesEnrollmentSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustCreateStudent(t, "A", "StudentA")
	env.mustCreateStudent(t, "B", "StudentB")
	course := env.mustCreateCourse(t, "Course1", a)

	resp, err := env.courseService.Update(ctx, nil, course.ID, &types.Course{
		Name:     "Course1Renamed",
		Students: []*types.Student{{SchoolID: "B"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Entity == nil {
		t.Fatalf("update rejected: %s", resp.Message)
	}

	stored, err := env.courseRepo.GetByID(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Name != "Course1Renamed" {
		t.Fatalf("name = %q, want Course1Renamed", stored.Name)
	}
	if len(stored.Students) != 1 || stored.Students[0].SchoolID != "B" {
		t.Fatalf("enrollment set not replaced, got %+v", stored.Students)
	}

	// The student side of the relation must agree with the course side.
	reloadedA, err := env.studentRepo.GetByID(ctx, nil, a.ID)
	if err != nil {
		t.Fatalf("reload student: %v", err)
	}
	if len(reloadedA.Courses) != 0 {
		t.Fatalf("student A still enrolled after replace: %v", courseNames(reloadedA.Courses))
	}
}

func TestCourseUpdateUnknownID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.courseService.Update(context.Background(), nil, 999, &types.Course{Name: "Course1"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCourseGetWithNoStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustCreateStudent(t, "A", "StudentA")
	env.mustCreateCourse(t, "Course1", a)
	empty := env.mustCreateCourse(t, "Course2")

	courses, err := env.courseService.GetWithNoStudents(ctx, nil)
	if err != nil {
		t.Fatalf("get with no students: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != empty.ID {
		t.Fatalf("expected only the empty course, got %+v", courses)
	}
}

func TestCourseDeleteRemovesEnrollmentRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustCreateStudent(t, "A", "StudentA")
	course := env.mustCreateCourse(t, "Course1", a)

	if err := env.courseService.Delete(ctx, nil, course); err != nil {
		t.Fatalf("delete: %v", err)
	}

	gone, err := env.courseService.GetByID(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if gone != nil {
		t.Fatalf("course still present after delete")
	}

	reloadedA, err := env.studentRepo.GetByID(ctx, nil, a.ID)
	if err != nil {
		t.Fatalf("reload student: %v", err)
	}
	if len(reloadedA.Courses) != 0 {
		t.Fatalf("student still enrolled in deleted course: %v", courseNames(reloadedA.Courses))
	}
}
