package main

import (
	"log"

	"triago-backend/cmd/api"
	authdomain "triago-backend/internal/auth/domain"
	authrepo "triago-backend/internal/auth/repository"
	authusecase "triago-backend/internal/auth/usecase"
	messagedomain "triago-backend/internal/message/domain"
	messagerepo "triago-backend/internal/message/repository"
	messageusecase "triago-backend/internal/message/usecase"
	settingsdomain "triago-backend/internal/settings/domain"
	settingsrepo "triago-backend/internal/settings/repository"
	settingsusecase "triago-backend/internal/settings/usecase"
	"triago-backend/pkg/ai"
	"triago-backend/pkg/config"
	"triago-backend/pkg/database"
	"triago-backend/pkg/gmail"
	"triago-backend/pkg/locker"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.Connection{},
		&messagedomain.Message{},
		&messagedomain.Reply{},
		&settingsdomain.AutoReplySettings{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	userRepo := authrepo.NewUserRepository(db)
	connRepo := authrepo.NewConnectionRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)
	replyRepo := messagerepo.NewReplyRepository(db)
	settingsRepo := settingsrepo.NewSettingsRepository(db)

	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	var summarizer ai.Summarizer
	if cfg.GeminiApiKey != "" {
		summarizer = ai.NewGeminiService(cfg.GeminiApiKey)
	} else {
		log.Println("[WARN] GEMINI_API_KEY not set, using excerpt summaries")
		summarizer = ai.NewFallbackSummarizer()
	}

	creds := messageusecase.NewCredentialManager(connRepo, gmailService, locker.New(rdb))

	authUc := authusecase.NewAuthUsecase(userRepo, connRepo, settingsRepo, gmailService, cfg)
	messageUc := messageusecase.NewMessageUsecase(messageRepo, replyRepo, connRepo, userRepo, settingsRepo, gmailService, summarizer, creds, cfg.SyncMaxResults)
	settingsUc := settingsusecase.NewSettingsUsecase(settingsRepo, connRepo)

	handler := api.NewHandler(authUc, messageUc, settingsUc, cfg)

	log.Printf("server listening on :%s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
