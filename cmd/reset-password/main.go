package main

import (
	"flag"
	"log"

	"go-cms-admin/internal/model"
	"go-cms-admin/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("user", "admin", "username to reset")
	newPassword := flag.String("password", "admin123", "new password")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Find User
	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *username, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update
	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *username)
}
