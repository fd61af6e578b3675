// cmd/api/main.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fittrackr/fittrackr-backend/internal/ai"
	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/bmi"
	"github.com/fittrackr/fittrackr-backend/internal/buddies"
	"github.com/fittrackr/fittrackr-backend/internal/common/database"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
	"github.com/fittrackr/fittrackr-backend/internal/community"
	"github.com/fittrackr/fittrackr-backend/internal/config"
	"github.com/fittrackr/fittrackr-backend/internal/messaging"
	"github.com/fittrackr/fittrackr-backend/internal/notification"
	"github.com/fittrackr/fittrackr-backend/internal/profile"
	"github.com/fittrackr/fittrackr-backend/internal/workouts"
)

func main() {
	log.Println("Starting FitTrackr API server...")

	// Step 1: Environment and configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("Step 1: Configuration loaded (environment: %s)", cfg.Environment)

	// Step 2: Database connections
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("Step 2: PostgreSQL connected")

	redisClient, err := database.NewRedisClientFromURL(cfg.RedisURL)
	if err != nil {
		log.Printf("Redis unavailable, token revocation disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Step 2: Redis connected")
	}

	// Step 3: Auth
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, redisClient, &auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		BCryptCost:         cfg.BCryptCost,
	})
	authMiddleware := auth.NewMiddleware(authService)
	authHandler := auth.NewHandler(authService)
	log.Println("Step 3: Auth service initialized")

	// Step 4: File uploads
	var uploader profile.UploadService
	if cfg.UseS3 {
		uploader, err = profile.NewS3UploadService(cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploads: %v", err)
		}
		log.Printf("Step 4: S3 uploads enabled (bucket: %s)", cfg.S3Bucket)
	} else {
		uploader = profile.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		log.Printf("Step 4: Local uploads enabled (dir: %s)", cfg.LocalUploadDir)
	}

	// Step 5: Profiles
	profileRepo := profile.NewRepository(db)
	profileService := profile.NewService(profileRepo, uploader)
	profileHandler := profile.NewHandler(profileService)
	log.Println("Step 5: Profile service initialized")

	// Step 6: Notifications
	var emailSender notification.EmailSender
	if cfg.EmailProvider == "sendgrid" {
		emailSender = notification.NewSendGridEmailSender(cfg.SendGridAPIKey, cfg.EmailFrom, "FitTrackr")
	} else {
		emailSender = notification.MockEmailSender{}
	}
	var smsSender notification.SMSSender
	if cfg.SMSProvider == "twilio" {
		smsSender = notification.NewTwilioSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	} else {
		smsSender = notification.MockSMSSender{}
	}
	notifier := notification.NewService(emailSender, smsSender, &userContacts{users: authService})
	log.Printf("Step 6: Notifications initialized (email: %s, sms: %s)", cfg.EmailProvider, cfg.SMSProvider)

	// Step 7: Buddy matching
	buddyRepo := buddies.NewRepository(db)
	buddyService := buddies.NewService(buddyRepo, notifier, &buddies.Config{
		RequestExpiry:       cfg.BuddyRequestExpiry,
		RecommendationLimit: cfg.RecommendationLimit,
		NearbyDefaultRadius: cfg.NearbyDefaultRadius,
		CandidatePoolSize:   500,
	})
	buddyHandler := buddies.NewHandler(buddyService)
	log.Println("Step 7: Buddy matching initialized")

	// Step 8: BMI tracking
	bmiService := bmi.NewService(bmi.NewRepository(db))
	bmiHandler := bmi.NewHandler(bmiService)
	log.Println("Step 8: BMI service initialized")

	// Step 9: Workouts
	workoutService := workouts.NewService(workouts.NewRepository(db))
	workoutHandler := workouts.NewHandler(workoutService)
	log.Println("Step 9: Workout service initialized")

	// Step 10: Community feed
	communityService := community.NewService(community.NewRepository(db), uploader)
	communityHandler := community.NewHandler(communityService)
	log.Println("Step 10: Community service initialized")

	// Step 11: Messaging
	hub := messaging.NewHub()
	go hub.Run()
	messagingService := messaging.NewService(messaging.NewRepository(db), hub)
	messagingHandler := messaging.NewHandler(messagingService, hub)
	log.Println("Step 11: Messaging service initialized")

	// Step 12: AI coaching
	providers := []ai.Provider{
		ai.NewDeepSeekProvider(cfg.DeepSeekAPIKey, cfg.LLMCallTimeout),
		ai.NewTencentProvider(cfg.TencentSecretKey, cfg.LLMCallTimeout),
		ai.NewAIMLAPIProvider(cfg.AIMLAPIKey, cfg.LLMCallTimeout),
	}
	aiManager := ai.NewManager(providers, cfg.LLMCallTimeout)
	aiService := ai.NewService(aiManager, &profileContext{profiles: profileService})
	aiHandler := ai.NewHandler(aiService)
	log.Printf("Step 12: AI coaching initialized (providers: %v)", aiManager.ProviderNames())

	// Step 13: Routing
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithMessage(w, http.StatusOK, "ok")
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authHandler.RegisterRoutes(router, authMiddleware)
	buddies.RegisterRoutes(router, buddyHandler, authMiddleware)
	bmi.RegisterRoutes(router, bmiHandler, authMiddleware)
	workouts.RegisterRoutes(router, workoutHandler, authMiddleware)
	community.RegisterRoutes(router, communityHandler, authMiddleware)
	messaging.RegisterRoutes(router, messagingHandler, authMiddleware)
	ai.RegisterRoutes(router, aiHandler, authMiddleware)

	// Profile routes live on their own chi router
	chiRouter := chi.NewRouter()
	profile.RegisterRoutes(chiRouter, profileHandler, authMiddleware)
	router.PathPrefix("/api/v1/profile").Handler(chiRouter)
	router.PathPrefix("/api/v1/users").Handler(chiRouter)

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}
	log.Println("Step 13: Routes registered")

	// Step 14: HTTP server with graceful shutdown
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Step 14: Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// userContacts adapts the auth service to the notification contact lookup
type userContacts struct {
	users auth.Service
}

func (c *userContacts) GetEmail(ctx context.Context, userID int64) (string, error) {
	user, err := c.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (c *userContacts) GetPhone(ctx context.Context, userID int64) (string, error) {
	user, err := c.users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Phone == nil {
		return "", nil
	}
	return *user.Phone, nil
}

// profileContext adapts the profile service to the AI prompt builder
type profileContext struct {
	profiles profile.Service
}

func (c *profileContext) FitnessContext(ctx context.Context, userID int64) (*ai.UserContext, error) {
	p, err := c.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ai.UserContext{
		Age:          p.Age,
		Gender:       p.Gender,
		HeightCm:     p.HeightCm,
		WeightKg:     p.WeightKg,
		FitnessLevel: p.FitnessLevel,
		FitnessTags:  p.FitnessTags,
		FitnessGoal:  p.FitnessGoal,
	}, nil
}
