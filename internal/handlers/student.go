package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/metahome/school-backend/internal/logger"
	apperrors "github.com/metahome/school-backend/internal/pkg/errors"
	"github.com/metahome/school-backend/internal/services"
	"github.com/metahome/school-backend/internal/types"
)

type StudentHandler struct {
	log            *logger.Logger
	studentService services.StudentService
}

func NewStudentHandler(log *logger.Logger, studentService services.StudentService) *StudentHandler {
	return &StudentHandler{
		log:            log.With("handler", "StudentHandler"),
		studentService: studentService,
	}
}

func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.studentService.GetAll(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List students failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_students_failed", err)
		return
	}
	RespondOK(c, students)
}

func (h *StudentHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	student, err := h.studentService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("Get student failed", "error", err, "student_id", id)
		RespondError(c, http.StatusInternalServerError, "load_student_failed", err)
		return
	}
	if student == nil {
		RespondNotFound(c, studentNotFoundMessage(id))
		return
	}
	RespondOK(c, student)
}

func (h *StudentHandler) ListCourses(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	student, err := h.studentService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("Get student failed", "error", err, "student_id", id)
		RespondError(c, http.StatusInternalServerError, "load_student_failed", err)
		return
	}
	if student == nil {
		RespondNotFound(c, studentNotFoundMessage(id))
		return
	}
	RespondOK(c, student.Courses)
}

func (h *StudentHandler) ListWithNoCourses(c *gin.Context) {
	students, err := h.studentService.GetWithNoCourses(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List students with no courses failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_students_failed", err)
		return
	}
	RespondOK(c, students)
}

func (h *StudentHandler) Create(c *gin.Context) {
	var student types.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resp, err := h.studentService.Save(c.Request.Context(), nil, &student)
	if err != nil {
		h.log.Error("Create student failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "save_student_failed", err)
		return
	}
	if resp.Entity != nil {
		RespondCreated(c, resp.Entity)
		return
	}
	RespondConflict(c, resp.Message)
}

func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var student types.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resp, err := h.studentService.Update(c.Request.Context(), nil, id, &student)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondNotFound(c, studentNotFoundMessage(id))
			return
		}
		h.log.Error("Update student failed", "error", err, "student_id", id)
		RespondError(c, http.StatusInternalServerError, "update_student_failed", err)
		return
	}
	if resp.Entity != nil {
		RespondOK(c, resp.Entity)
		return
	}
	RespondConflict(c, resp.Message)
}

func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	student, err := h.studentService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("Get student failed", "error", err, "student_id", id)
		RespondError(c, http.StatusInternalServerError, "load_student_failed", err)
		return
	}
	if student == nil {
		RespondNotFound(c, studentNotFoundMessage(id))
		return
	}
	if err := h.studentService.Delete(c.Request.Context(), nil, student); err != nil {
		h.log.Error("Delete student failed", "error", err, "student_id", id)
		RespondError(c, http.StatusInternalServerError, "delete_student_failed", err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *StudentHandler) Register(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var courses []*types.Course
	if err := c.ShouldBindJSON(&courses); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resp, err := h.studentService.Register(c.Request.Context(), nil, id, courses)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			RespondNotFound(c, studentNotFoundMessage(id))
			return
		}
		h.log.Error("Register student failed", "error", err, "student_id", id)
		RespondError(c, http.StatusInternalServerError, "register_student_failed", err)
		return
	}
	if resp.Entity != nil {
		RespondOK(c, resp.Entity)
		return
	}
	RespondConflict(c, resp.Message)
}

func studentNotFoundMessage(id uint) string {
	return fmt.Sprintf("Student with id: %d was not found", id)
}

// pathID parses the :id segment. On failure it writes the 400 itself so
// callers can just return.
func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid id %q", raw))
		return 0, false
	}
	return uint(id), true
}
