package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"srv_contratos/config"
	"srv_contratos/db"
	"srv_contratos/models"
	"srv_contratos/services"

	"golang.org/x/term"
)

func main() {
	staff := flag.Bool("staff", false, "mark the user as staff")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	database, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(database)

	if err := db.AutoMigrate(database, models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New User ===")
	fmt.Println()

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println()

	if string(passwordBytes) != string(confirmBytes) {
		log.Fatal("Passwords do not match")
	}

	auth := services.NewAuthService(database, cfg.JWTSecret, cfg.AccessTokenLifetime, cfg.RefreshTokenLifetime)
	user, err := auth.CreateUser(context.Background(), username, email, string(passwordBytes), *staff)
	if err != nil {
		if fe, ok := err.(services.FieldErrors); ok {
			for field, problems := range fe {
				fmt.Printf("  %s: %s\n", field, strings.Join(problems, " "))
			}
			os.Exit(1)
		}
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Staff: %t\n", user.IsStaff)
	fmt.Println()
	fmt.Println("The user can now obtain a token at POST /api/token/")
}
