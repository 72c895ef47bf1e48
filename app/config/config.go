package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB   *sql.DB
	SMTP SMTPConfig

	// SecretKey signs JWTs and document download URLs.
	SecretKey string

	// UploadDir is the root directory for stored document files.
	UploadDir string

	// CurrentSchoolYear is the default school year offered to new
	// enrollments, formatted "YYYY-YYYY".
	CurrentSchoolYear string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var AppConfig *Config

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	// .env is optional; deployments normally use plain environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	var psqlInfo string
	if os.Getenv("LOCAL_DB") == "true" {
		psqlInfo = "host=localhost port=5432 user=postgres dbname=lakeside sslmode=disable"
		log.Println("Using local PostgreSQL database")
	} else {
		host := getenv("DB_HOST", "localhost")
		port := getenv("DB_PORT", "5432")
		user := getenv("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		dbname := getenv("DB_NAME", "lakeside")

		psqlInfo = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=60",
			host, port, user, password, dbname, getenv("DB_SSLMODE", "disable"))
		log.Printf("Connecting to database %s at %s:%s", dbname, host, port)
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}

	smtpPort := 587
	fmt.Sscanf(getenv("SMTP_PORT", "587"), "%d", &smtpPort)

	AppConfig = &Config{
		DB: db,
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "registrar@lakesideacademy.edu"),
		},
		SecretKey:         getenv("SECRET_KEY", "lakeside-academy-secret-key"),
		UploadDir:         getenv("UPLOAD_DIR", "./uploads"),
		CurrentSchoolYear: getenv("CURRENT_SCHOOL_YEAR", "2025-2026"),
	}
	log.Println("Database connected successfully")
	log.Println("Email configuration initialized")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
