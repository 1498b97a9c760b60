package config

import (
	"encoding/json"
	"os"
	"strconv"

	"assetreg/internal/model"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuditConfig bounds the audit list endpoint.
type AuditConfig struct {
	DefaultListLimit int
	MaxListLimit     int
}

// StageReviewers maps each lifecycle stage to the roles allowed to decide it.
type StageReviewers map[model.Stage][]model.Role

// Allowed reports whether role may approve or reject records of stage.
func (sr StageReviewers) Allowed(stage model.Stage, role model.Role) bool {
	for _, r := range sr[stage] {
		if r == role {
			return true
		}
	}
	return false
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Database       DatabaseConfig
	MinIO          MinIOConfig
	Audit          AuditConfig
	StageReviewers StageReviewers
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Audit: AuditConfig{
			DefaultListLimit: getEnvInt("AUDIT_DEFAULT_LIST_LIMIT", 50),
			MaxListLimit:     getEnvInt("AUDIT_MAX_LIST_LIMIT", 1000),
		},
		StageReviewers: loadStageReviewers(),
	}
}

// loadStageReviewers reads the per-stage reviewer authority mapping from the
// STAGE_REVIEWERS environment variable (JSON object of stage -> role list).
// Unknown stages in the override are ignored; stages the override omits keep
// the default mapping.
func loadStageReviewers() StageReviewers {
	sr := defaultStageReviewers()

	raw := os.Getenv("STAGE_REVIEWERS")
	if raw == "" {
		return sr
	}

	var override map[string][]string
	if err := json.Unmarshal([]byte(raw), &override); err != nil {
		return sr
	}
	for stage, roles := range override {
		s := model.Stage(stage)
		if !s.Valid() {
			continue
		}
		rs := make([]model.Role, 0, len(roles))
		for _, r := range roles {
			rs = append(rs, model.Role(r))
		}
		sr[s] = rs
	}
	return sr
}

// defaultStageReviewers grants the registry center and admins authority on
// every stage, compliance officers on the compliance assessment and
// assessors on the value assessment.
func defaultStageReviewers() StageReviewers {
	sr := make(StageReviewers, len(model.StageOrder))
	for _, s := range model.StageOrder {
		sr[s] = []model.Role{model.RoleRegistryCenter, model.RoleAdmin}
	}
	sr[model.StageComplianceAssessment] = append(sr[model.StageComplianceAssessment], model.RoleCompliance)
	sr[model.StageValueAssessment] = append(sr[model.StageValueAssessment], model.RoleAssessor)
	return sr
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
