package main

import (
	"flag"
	"log"

	"lakeside-academy/app/config"
	"lakeside-academy/app/database"
	"lakeside-academy/app/models"
)

// Bootstrap tool for creating staff accounts from the command line, since
// the public registration endpoint only creates guardians.
func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	role := flag.String("role", models.RoleRegistrar, "role: super_admin, registrar, guardian")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" || *lastName == "" {
		log.Fatal("email, password, first-name and last-name are required")
	}
	switch *role {
	case models.RoleSuperAdmin, models.RoleRegistrar, models.RoleGuardian:
	default:
		log.Fatalf("unknown role %q", *role)
	}

	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	user := &models.User{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	}
	if err := database.CreateUser(db, user, *role); err != nil {
		log.Fatal("Failed to create user:", err)
	}

	log.Printf("Created %s account %s (%s)", *role, user.Email, user.ID)
}
