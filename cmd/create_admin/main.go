// Command create_admin seeds the dashboard admin account. The password is
// read from ADMIN_PASSWORD so no credential ends up in shell history or
// source control.
package main

import (
	"fmt"
	"log"
	"os"

	"solara/internal/config"
	"solara/internal/database"
	"solara/internal/domain"
	"solara/internal/util"
)

func main() {
	_, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg := config.Get()
	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	var existing domain.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("User %q already exists\n", username)
		return
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := domain.User{
		Username:       username,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsAdmin:        true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user %q created\n", username)
}
