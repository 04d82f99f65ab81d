// Command tests seeds a development database with an admin and sample users.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"carvistors/config"
	"carvistors/database"
	accountRepo "carvistors/database/repository/account"
	"carvistors/models"

	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123"

func main() {
	config.LoadConfig()
	database.InitDB()
	defer func() { _ = database.Disconnect(context.Background()) }()

	repo := accountRepo.NewMongoAccountRepo(database.DB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	seed := func(kind models.AccountKind, first, last, email, role string) {
		existing, err := repo.FindByEmail(ctx, kind, email)
		if err != nil {
			log.Fatalf("Failed to look up %s: %v", email, err)
		}
		if existing != nil {
			log.Printf("%s %s already exists, skipping", kind, email)
			return
		}
		a := &models.Account{FirstName: first, LastName: last, Email: email, PasswordHash: string(hash), Role: role}
		if err := repo.Create(ctx, kind, a); err != nil {
			log.Fatalf("Failed to create %s %s: %v", kind, email, err)
		}
		log.Printf("Created %s %s (%s)", kind, email, a.ID)
	}

	seed(models.KindAdmin, "Site", "Admin", "admin@carvistors.com", models.RoleAdmin)
	for i := 1; i <= 5; i++ {
		seed(models.KindUser, "Test", fmt.Sprintf("User%d", i), fmt.Sprintf("user%d@example.com", i), "")
	}
	log.Printf("Seed complete. All accounts use password %q", seedPassword)
}
