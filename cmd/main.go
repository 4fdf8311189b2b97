package main

import (
	"fmt"
	"os"

	"github.com/metahome/school-backend/internal/db"
	"github.com/metahome/school-backend/internal/handlers"
	"github.com/metahome/school-backend/internal/logger"
	"github.com/metahome/school-backend/internal/repos"
	"github.com/metahome/school-backend/internal/server"
	"github.com/metahome/school-backend/internal/services"
	"github.com/metahome/school-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	studentRepo := repos.NewStudentRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	studentService := services.NewStudentService(thePG, log, studentRepo, courseRepo)
	courseService := services.NewCourseService(thePG, log, courseRepo, studentRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	studentHandler := handlers.NewStudentHandler(log, studentService)
	courseHandler := handlers.NewCourseHandler(log, courseService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		StudentHandler: studentHandler,
		CourseHandler:  courseHandler,
	})

	port := utils.GetEnv("SERVER_PORT", "8080", log)
	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
