package main

import (
	"log"
	"os"

	"fintrust-support-be/internal/model"
	"fintrust-support-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	SeedNotificationTypes(db)
	seedUsers(db)

	color.Green("Seeding completed.")
}

type seedUser struct {
	email       string
	fullName    string
	role        string
	departments []int64
	isDefault   bool
}

// seedUsers creates a demo admin, the default agent that catches unmatched
// customers, two department agents and one customer.
func seedUsers(db *gorm.DB) {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing seed password: %v", err)
	}
	hashStr := string(hash)

	users := []seedUser{
		{email: "admin@fintrust.dev", fullName: "Platform Admin", role: "admin"},
		{email: "default.agent@fintrust.dev", fullName: "Default Agent", role: "agent", isDefault: true},
		{email: "agent.payments@fintrust.dev", fullName: "Payments Agent", role: "agent", departments: []int64{1, 2}},
		{email: "agent.trading@fintrust.dev", fullName: "Trading Agent", role: "agent", departments: []int64{3}},
		{email: "customer@fintrust.dev", fullName: "Demo Customer", role: "customer"},
	}

	for _, u := range users {
		user := model.User{
			Id:           uuid.New(),
			Email:        u.email,
			PasswordHash: &hashStr,
			FullName:     u.fullName,
			Role:         u.role,
			Status:       "active",
		}
		if err := db.Where("email = ?", u.email).FirstOrCreate(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", u.email, err)
			continue
		}

		if u.role != "agent" {
			continue
		}

		profile := model.AgentProfile{
			Id:          uuid.New(),
			UserId:      user.Id,
			Departments: datatypes.NewJSONSlice(u.departments),
			IsDefault:   u.isDefault,
		}
		if err := db.Where("user_id = ?", user.Id).FirstOrCreate(&profile).Error; err != nil {
			log.Printf("Error seeding agent profile for %s: %v", u.email, err)
		}
	}

	log.Println("Demo users seeded.")
}
