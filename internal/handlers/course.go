package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metahome/school-backend/internal/logger"
	apperrors "github.com/metahome/school-backend/internal/pkg/errors"
	"github.com/metahome/school-backend/internal/services"
	"github.com/metahome/school-backend/internal/types"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.GetAll(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List courses failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_courses_failed", err)
		return
	}
	RespondOK(c, courses)
}

func (h *CourseHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.courseService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("Get course failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "load_course_failed", err)
		return
	}
	if course == nil {
		RespondNotFound(c, courseNotFoundMessage(id))
		return
	}
	RespondOK(c, course)
}

func (h *CourseHandler) ListStudents(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.courseService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("Get course failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "load_course_failed", err)
		return
	}
	if course == nil {
		RespondNotFound(c, courseNotFoundMessage(id))
		return
	}
	RespondOK(c, course.Students)
}

func (h *CourseHandler) ListWithNoStudents(c *gin.Context) {
	courses, err := h.courseService.GetWithNoStudents(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List courses with no students failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_courses_failed", err)
		return
	}
	RespondOK(c, courses)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var course types.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resp, err := h.courseService.Save(c.Request.Context(), nil, &course)
	if err != nil {
		h.log.Error("Create course failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "save_course_failed", err)
		return
	}
	if resp.Entity != nil {
		RespondCreated(c, resp.Entity)
		return
	}
	RespondConflict(c, resp.Message)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var course types.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resp, err := h.courseService.Update(c.Request.Context(), nil, id, &course)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondNotFound(c, courseNotFoundMessage(id))
			return
		}
		h.log.Error("Update course failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "update_course_failed", err)
		return
	}
	if resp.Entity != nil {
		RespondOK(c, resp.Entity)
		return
	}
	RespondConflict(c, resp.Message)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.courseService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("Get course failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "load_course_failed", err)
		return
	}
	if course == nil {
		RespondNotFound(c, courseNotFoundMessage(id))
		return
	}
	if err := h.courseService.Delete(c.Request.Context(), nil, course); err != nil {
		h.log.Error("Delete course failed", "error", err, "course_id", id)
		RespondError(c, http.StatusInternalServerError, "delete_course_failed", err)
		return
	}
	c.Status(http.StatusOK)
}

func courseNotFoundMessage(id uint) string {
	return fmt.Sprintf("Course with id: %d was not found", id)
}
