package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ekaraca/campuslink/internal/admintoken"
	"github.com/ekaraca/campuslink/internal/config"
	"github.com/ekaraca/campuslink/internal/es"
	"github.com/ekaraca/campuslink/internal/handlers"
	"github.com/ekaraca/campuslink/internal/httpserver"
	"github.com/ekaraca/campuslink/internal/logging"
	"github.com/ekaraca/campuslink/internal/middleware/adminauth"
	"github.com/ekaraca/campuslink/internal/middleware/session"
	"github.com/ekaraca/campuslink/internal/mykafka"
	"github.com/ekaraca/campuslink/internal/social"
)

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("DB init error: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	logger.Info("starting campuslink")

	jwtSecret := []byte(configuration.JWT_SECRET)
	adminSecret := []byte(configuration.ADMIN_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokens := admintoken.NewService(adminSecret)
	gate := adminauth.NewGate(tokens, adminauth.DefaultConfig())
	sessions := &session.Middleware{DB: db, Secret: jwtSecret}
	socialSvc := &social.Service{DB: db}

	searchHandler := &handlers.SearchHandler{ES: esClient, Index: "users"}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:        db,
		Session:   sessions,
		AdminGate: gate,
		AuthHandler: &handlers.AuthHandler{
			DB:         db,
			JWTSecret:  jwtSecret,
			Producer:   prod,
			Search:     searchHandler,
			TestEmails: configuration.TestEmailList(),
		},
		AdminHandler: &handlers.AdminHandler{
			DB:           db,
			Tokens:       tokens,
			Username:     configuration.ADMIN_USERNAME,
			PasswordHash: configuration.ADMIN_PASSWORD_HASH,
			Producer:     prod,
		},
		ProfileHandler: &handlers.ProfileHandler{DB: db, Social: socialSvc, Producer: prod},
		PostHandler:    &handlers.PostHandler{DB: db, Producer: prod},
		EventHandler:   &handlers.EventHandler{DB: db, Producer: prod},
		TicketHandler:  &handlers.TicketHandler{DB: db},
		ReportHandler:  &handlers.ReportHandler{DB: db},
		SearchHandler:  searchHandler,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
