package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/metahome/school-backend/internal/logger"
	"github.com/metahome/school-backend/internal/types"
	"github.com/metahome/school-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "school", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

// AutoMigrateAll migrates the student and course tables (the student_course
// join table comes with them) and then pins ON DELETE CASCADE on the join
// table, so deleting either side cleans up its enrollment rows in the store.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&types.Student{},
		&types.Course{},
	); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "student_course"
		DROP CONSTRAINT IF EXISTS "fk_student_course_student_id",
		DROP CONSTRAINT IF EXISTS "fk_student_course_course_id",
		ADD CONSTRAINT "fk_student_course_student_id"
			FOREIGN KEY ("student_id") REFERENCES "student"("id") ON DELETE CASCADE,
		ADD CONSTRAINT "fk_student_course_course_id"
			FOREIGN KEY ("course_id") REFERENCES "course"("id") ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("add student_course foreign keys: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
