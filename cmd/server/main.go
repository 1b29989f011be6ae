package main

import (
	"context"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"imagevault_backend/internal/app/router"
	"imagevault_backend/internal/config"
	analysisadapters "imagevault_backend/internal/feature/analysis/adapters/gemini"
	"imagevault_backend/internal/feature/analysis/adapters/linkfetch"
	visionadapters "imagevault_backend/internal/feature/analysis/adapters/vision"
	analysishandler "imagevault_backend/internal/feature/analysis/transport/handler"
	analysisusecase "imagevault_backend/internal/feature/analysis/usecase"
	authadapters "imagevault_backend/internal/feature/auth/adapters"
	authhandler "imagevault_backend/internal/feature/auth/transport/handler"
	authusecase "imagevault_backend/internal/feature/auth/usecase"
	entryadapters "imagevault_backend/internal/feature/entries/adapters"
	entryhandler "imagevault_backend/internal/feature/entries/transport/handler"
	entryusecase "imagevault_backend/internal/feature/entries/usecase"
	"imagevault_backend/internal/platform/cache"
	infradb "imagevault_backend/internal/platform/db"
	jwtmw "imagevault_backend/internal/platform/jwt"
	infraredis "imagevault_backend/internal/platform/redis"
	"imagevault_backend/internal/platform/storage"
	"imagevault_backend/internal/shared/ratelimiter"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// Database
	db := infradb.Open(cfg.DBDriver, cfg.DBDSN, cfg.RunMigrations)

	// Redis (optional; label cache and session records degrade without it)
	var rdb *redisv9.Client
	if addr := cfg.RedisAddr(); addr != "" {
		if tmp, err := infraredis.NewClient(addr, cfg.RedisPassword); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// File storage
	files, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	// Repositories
	userRepo := authadapters.NewUserGorm(db)
	entryRepo := entryadapters.NewEntryGorm(db)
	cachedEntryRepo := cache.NewCachingEntryRepository(rdb, cfg.LabelCacheTTL, entryRepo, "labels")

	var sessionRepo authusecase.SessionRepository
	if rdb != nil {
		sessionRepo = authadapters.NewSessionRedis(rdb, "sessions")
	}

	// AI backends (all optional)
	var (
		analyzer   analysisusecase.ImageAnalyzer
		summarizer analysisusecase.TextSummarizer
		labels     analysisusecase.LabelDetector
	)
	if cfg.GeminiAPIKey != "" {
		limiter := ratelimiter.NewRateLimiter(cfg.GeminiRateLimit, time.Minute)
		gemini, err := analysisadapters.NewGeminiClient(ctx, cfg.GeminiAPIKey, limiter)
		if err != nil {
			log.Println("[WARN] Gemini client init failed. Using mock analysis:", err)
		} else {
			analyzer = gemini
			summarizer = gemini
		}
	} else {
		log.Println("[WARN] GEMINI_API_KEY not set. Using mock analysis results.")
	}
	if cfg.VisionEnabled {
		detector, err := visionadapters.NewVisionLabelDetector(ctx)
		if err != nil {
			log.Println("[WARN] Vision client init failed. Using keyword classifier:", err)
		} else {
			labels = detector
			defer func() {
				if err := detector.Close(); err != nil {
					log.Println("[ERROR] Failed to close Vision client:", err)
				}
			}()
		}
	}

	// Usecases
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.TokenTTL)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, tokens)
	entriesUC := entryusecase.NewEntriesUsecase(cachedEntryRepo, authUC, files)
	analysisUC := analysisusecase.NewAnalysisUsecase(analyzer, summarizer, labels,
		linkfetch.NewRestyFetcher(), cfg.AnalysisTimeout)

	// Handlers
	authH := authhandler.NewAuthHandler(authUC)
	entriesH := entryhandler.NewEntryHandler(entriesUC, analysisUC)
	analysisH := analysishandler.NewAnalysisHandler(analysisUC)

	r := router.NewRouter(authH, entriesH, analysisH, cfg.JWTSecret)

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
