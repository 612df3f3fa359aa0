package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	tokenAuth := userservice.NewTokenAuth(cfg.AuthTokenSecret, cfg.AuthTokenTTL)

	// Initialize the services
	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, tokenAuth, cache),
		blogService: blogservice.NewBlogService(db, cache),
	}

	// Start the HTTP server
	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
