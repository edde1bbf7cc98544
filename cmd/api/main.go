package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"

	"github.com/markethub/markethub-backend/internal/database"
	"github.com/markethub/markethub-backend/internal/modules/admin"
	"github.com/markethub/markethub-backend/internal/modules/auth"
	"github.com/markethub/markethub-backend/internal/modules/bargain"
	"github.com/markethub/markethub-backend/internal/modules/catalog"
	"github.com/markethub/markethub-backend/internal/modules/notify"
	"github.com/markethub/markethub-backend/internal/modules/order"
	"github.com/markethub/markethub-backend/internal/modules/seller"
	"github.com/markethub/markethub-backend/internal/modules/settings"
	"github.com/markethub/markethub-backend/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := database.Open(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedSettings(db); err != nil {
		log.Fatal(err)
	}
	if err := database.BootstrapSuperAdmin(db, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatal(err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("connect redis: ", err)
	}
	defer rdb.Close()

	mailer := buildMailer()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	sellerRepo := seller.NewPostgresRepository(db)

	mw := auth.NewMiddleware(jwtSecret, sellerRepo)
	authService := auth.NewService(userRepo, sellerRepo,
		auth.NewRedisOTPStore(rdb), auth.NewRedisRateLimiter(rdb), mailer, jwtSecret)
	auth.NewHandler(authService, mw).RegisterRoutes(router)

	sellerService := seller.NewService(sellerRepo)
	seller.NewHandler(sellerService, mw).RegisterRoutes(router)

	// ── Platform configuration ──────────────────────────────
	settingsService := settings.NewService(settings.NewPostgresRepository(db))
	settings.NewHandler(settingsService).RegisterRoutes(router)

	// ── Catalog & negotiation ───────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db), sellerRepo)
	catalog.NewHandler(catalogService, mw).RegisterRoutes(router)

	bargainService := bargain.NewService(bargain.NewPostgresRepository(db), sellerRepo, settingsService)
	bargain.NewHandler(bargainService, mw).RegisterRoutes(router)

	// ── Orders ──────────────────────────────────────────────
	orderService := order.NewService(order.NewPostgresRepository(db), sellerRepo, settingsService)
	order.NewHandler(orderService, mw).RegisterRoutes(router)

	// ── Administration ──────────────────────────────────────
	adminService := admin.NewService(admin.NewPostgresRepository(db), settingsService)
	admin.NewHandler(adminService, mw).RegisterRoutes(router)

	if schedule := os.Getenv("COMMISSION_SWEEP_SCHEDULE"); schedule != "" {
		c := cron.New()
		err := c.AddFunc(schedule, func() {
			n, err := adminService.SweepUnpaid(context.Background())
			if err != nil {
				log.Printf("commission sweep: %v", err)
				return
			}
			if n > 0 {
				log.Printf("commission sweep suspended %d sellers", n)
			}
		})
		if err != nil {
			log.Fatal("invalid COMMISSION_SWEEP_SCHEDULE: ", err)
		}
		c.Start()
		defer c.Stop()
	}

	// ── Start Server ─────────────────────────────────────────
	port := envOr("APP_PORT", "8080")
	log.Printf("MarketHub API server starting on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func buildMailer() notify.Mailer {
	serviceID := os.Getenv("EMAILJS_SERVICE_ID")
	templateID := os.Getenv("EMAILJS_TEMPLATE_ID")
	publicKey := os.Getenv("EMAILJS_PUBLIC_KEY")
	if serviceID == "" || templateID == "" || publicKey == "" {
		log.Println("EmailJS not configured, logging OTP codes instead")
		return notify.NewLogMailer()
	}
	return notify.NewEmailJSMailer(serviceID, templateID, publicKey, os.Getenv("EMAILJS_ACCESS_TOKEN"))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
