package main

import (
	"context"
	"log"
	"net/http"

	"carsure/internal/config"
	"carsure/internal/database"
	"carsure/internal/middleware"
	"carsure/internal/modules/appointment"
	"carsure/internal/modules/catalog"
	"carsure/internal/modules/notification"
	"carsure/internal/modules/realtime"
	"carsure/internal/modules/upload"
	jwtsvc "carsure/internal/pkg/jwt"
	"carsure/internal/pkg/response"
	"carsure/internal/repository"

	"github.com/gin-gonic/gin"
)

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

	workshopRepo := repository.NewWorkshopRepository(db)
	carRepo := repository.NewCarRepository(db)
	rdvRepo := repository.NewAppointmentRepository(db)
	notifRepo := notification.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := realtime.NewHub()
	defer hub.Close()

	notifService := notification.NewService(notifRepo, hub)
	notifHandler := notification.NewHandler(notifService)

	uploadService := upload.NewService(db, cfg.UploadsDir, cfg.StaticBase)

	rdvService := appointment.NewService(rdvRepo, workshopRepo, carRepo, notifService)
	rdvHandler := appointment.NewHandler(rdvService, uploadService)

	catalogService := catalog.NewService(workshopRepo, carRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	wsHandler := realtime.NewHandler(hub, j)

	ctx := context.Background()
	stopSweeper := rdvService.ScheduleSweeps(ctx, cfg.SweepInterval)
	defer close(stopSweeper)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	// unknown paths keep the JSON envelope too
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Ressource introuvable")
	})

	r.Static(cfg.StaticBase, cfg.UploadsDir)
	wsHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(j))
	{
		rdvHandler.RegisterRoutes(api)
		notifHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
