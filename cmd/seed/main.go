package main

import (
	"context"
	"log"
	"os"
	"time"

	"carsure/internal/config"
	"carsure/internal/database"
	"carsure/internal/domain"
	"carsure/internal/modules/notification"
	"carsure/internal/modules/upload"
	jwtsvc "carsure/internal/pkg/jwt"
	"carsure/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database with a seller, two workshops and a few cars,
// and prints dev bearer tokens for each account.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := notification.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := upload.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	workshops := repository.NewWorkshopRepository(db)
	cars := repository.NewCarRepository(db)
	j := jwtsvc.New(cfg.JWTSecret, 30*24*time.Hour)

	seller := seedUser(ctx, users, "seller@carsure.dz", "Karim Benali", domain.RoleSeller)
	wsUser1 := seedUser(ctx, users, "atelier.centre@carsure.dz", "Atelier Centre", domain.RoleWorkshop)
	wsUser2 := seedUser(ctx, users, "atelier.est@carsure.dz", "Atelier Est", domain.RoleWorkshop)
	admin := seedUser(ctx, users, "admin@carsure.dz", "Admin", domain.RoleAdmin)

	for _, w := range []*domain.Workshop{
		{
			UserID: wsUser1.ID, Name: "Atelier Centre", Phone: "+213 555 10 20 30",
			Address: "Alger Centre", Role: domain.WorkshopInspector,
			Active: true, Certified: true, VisitPrice: 3500,
			OpenTime: "09:00", CloseTime: "17:00",
		},
		{
			UserID: wsUser2.ID, Name: "Atelier Est", Phone: "+213 555 40 50 60",
			Address: "Constantine", Role: domain.WorkshopMechanic,
			Active: true, Certified: false, VisitPrice: 2500,
			OpenTime: "08:00", CloseTime: "16:00",
		},
	} {
		if err := workshops.Create(ctx, w); err != nil {
			log.Fatalf("seed workshop: %v", err)
		}
	}

	for _, c := range []*domain.Car{
		{OwnerID: seller.ID, Make: "Renault", Model: "Clio 4", Year: 2018, Price: 1950000, Status: domain.CarNoProcess},
		{OwnerID: seller.ID, Make: "Volkswagen", Model: "Golf 7", Year: 2016, Price: 2750000, Status: domain.CarNoProcess},
	} {
		if err := cars.Create(ctx, c); err != nil {
			log.Fatalf("seed car: %v", err)
		}
	}

	for _, u := range []*domain.User{seller, wsUser1, wsUser2, admin} {
		token, err := j.GenerateToken(u.ID, string(u.Role))
		if err != nil {
			log.Fatalf("token for %s: %v", u.Email, err)
		}
		log.Printf("%-28s role=%-8s token=%s", u.Email, u.Role, token)
	}
}

func seedUser(ctx context.Context, users *repository.UserRepository, email, name string, role domain.UserRole) *domain.User {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "carsure-dev"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	u := &domain.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("seed user %s: %v", email, err)
	}
	return u
}
