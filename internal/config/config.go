package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ekaraca/campuslink/internal/models"
)

type Config struct {
	DB_HOST             string
	DB_PORT             string
	DB_USER             string
	DB_PASSWORD         string
	DB_NAME             string
	ES_URL              string
	ES_USER             string
	ES_PASSWORD         string
	JWT_SECRET          string
	ADMIN_SECRET        string
	ADMIN_USERNAME      string
	ADMIN_PASSWORD_HASH string
	KAFKA_ADDRESS       string
	TEST_EMAILS         string
	LOG_LEVEL           string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:             os.Getenv("DB_HOST"),
		DB_PORT:             os.Getenv("DB_PORT"),
		DB_USER:             os.Getenv("DB_USER"),
		DB_PASSWORD:         os.Getenv("DB_PASSWORD"),
		DB_NAME:             os.Getenv("DB_NAME"),
		ES_URL:              os.Getenv("ES_URL"),
		ES_USER:             os.Getenv("ES_USER"),
		ES_PASSWORD:         os.Getenv("ES_PASSWORD"),
		JWT_SECRET:          os.Getenv("JWT_SECRET"),
		ADMIN_SECRET:        os.Getenv("ADMIN_SECRET"),
		ADMIN_USERNAME:      os.Getenv("ADMIN_USERNAME"),
		ADMIN_PASSWORD_HASH: os.Getenv("ADMIN_PASSWORD_HASH"),
		KAFKA_ADDRESS:       os.Getenv("KAFKA_ADDRESS"),
		TEST_EMAILS:         os.Getenv("TEST_EMAILS"),
		LOG_LEVEL:           os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}

// TestEmailList splits the comma separated TEST_EMAILS allow-list.
func (c *Config) TestEmailList() []string {
	if c.TEST_EMAILS == "" {
		return nil
	}
	parts := strings.Split(c.TEST_EMAILS, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func InitDB() (*gorm.DB, error) {
	configuration, _ := LoadConfig()

	host := configuration.DB_HOST
	port := configuration.DB_PORT
	user := configuration.DB_USER
	password := configuration.DB_PASSWORD
	dbname := configuration.DB_NAME

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.RoleRequest{},
		&models.Post{},
		&models.Event{},
		&models.SupportTicket{},
		&models.Report{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	return db, nil
}
