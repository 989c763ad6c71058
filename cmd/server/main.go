package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/booking"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/config"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/database"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/handler"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/middleware"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/queue"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/repository"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/router"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("open database: %v", err)
    }
    defer db.Close()

    // Redis is optional: a nil client disables rate limiting and the
    // response cache but never blocks startup.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and response cache disabled")
    }

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    properties := repository.NewPropertyRepo(db)
    bookings := repository.NewBookingRepo(db)

    engine := booking.NewEngine(repository.NewSQLStore(db))

    authH := handler.NewAuthHandler(cfg, users, tokens)
    bookingH := handler.NewBookingHandler(engine, bookings)
    hostBookingH := handler.NewHostBookingHandler(engine, bookings, properties)
    hostPropertyH := handler.NewHostPropertyHandler(engine, properties)
    publicH := handler.NewPublicPropertyHandler(properties)
    paymentH := handler.NewPaymentHandler(engine, cfg.WebhookSecret)

    e := echo.New()
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, publicH, config.LoadCacheConfig(), rdb)
    router.RegisterBookings(e, bookingH, hostBookingH, cfg.JWTSecret)
    router.RegisterHostProperties(e, hostPropertyH, cfg.JWTSecret)
    router.RegisterPayments(e, paymentH)

    // Consume booking events in the background; the consumer reconnects
    // on its own when the broker drops.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
