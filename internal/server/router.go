package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/metahome/school-backend/internal/handlers"
	"github.com/metahome/school-backend/internal/middleware"
)

type RouterConfig struct {
	StudentHandler *handlers.StudentHandler
	CourseHandler  *handlers.CourseHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID())

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Students
		api.GET("/students", cfg.StudentHandler.List)
		api.GET("/students/noCourses", cfg.StudentHandler.ListWithNoCourses)
		api.GET("/students/:id", cfg.StudentHandler.GetByID)
		api.GET("/students/:id/courses", cfg.StudentHandler.ListCourses)
		api.POST("/students", cfg.StudentHandler.Create)
		api.PUT("/students/:id", cfg.StudentHandler.Update)
		api.DELETE("/students/:id", cfg.StudentHandler.Delete)
		api.POST("/students/:id/register", cfg.StudentHandler.Register)

		// Courses
		api.GET("/courses", cfg.CourseHandler.List)
		api.GET("/courses/noStudents", cfg.CourseHandler.ListWithNoStudents)
		api.GET("/courses/:id", cfg.CourseHandler.GetByID)
		api.GET("/courses/:id/students", cfg.CourseHandler.ListStudents)
		api.POST("/courses", cfg.CourseHandler.Create)
		api.PUT("/courses/:id", cfg.CourseHandler.Update)
		api.DELETE("/courses/:id", cfg.CourseHandler.Delete)
	}

	return router
}
