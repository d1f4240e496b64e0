// Package main provides super admin management utilities for abuse.bin.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"abusebin/internal/config"
	"abusebin/internal/database"
	"abusebin/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <username>   - Grant super admin")
		fmt.Println("  go run ./cmd/admin demote <username>    - Revoke super admin")
		fmt.Println("  go run ./cmd/admin list                 - List super admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <username>")
			os.Exit(1)
		}
		setSuperAdmin(db, os.Args[2], true)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <username>")
			os.Exit(1)
		}
		setSuperAdmin(db, os.Args[2], false)

	case "list":
		listSuperAdmins(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func setSuperAdmin(db *gorm.DB, username string, grant bool) {
	var user models.User
	if err := db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User %q not found\n", username)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.SuperAdmin == grant {
		state := "is not"
		if grant {
			state = "is already"
		}
		fmt.Printf("User %s (#%d) %s a super admin\n", user.Username, user.UID, state)
		return
	}

	user.SuperAdmin = grant
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	verb := "revoked super admin from"
	if grant {
		verb = "granted super admin to"
	}
	fmt.Printf("Successfully %s %s (#%d)\n", verb, user.Username, user.UID)
}

func listSuperAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("super_admin = ?", true).Order("uid").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch super admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No super admins found")
		return
	}

	fmt.Println("Current super admins:")
	for _, admin := range admins {
		fmt.Printf("  #%d %s <%s> role=%s\n", admin.UID, admin.Username, admin.Email, admin.Role)
	}
}
