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

	"github.com/Skotchmaster/bookstore/internal/cart"
	"github.com/Skotchmaster/bookstore/internal/catalog"
	"github.com/Skotchmaster/bookstore/internal/config"
	"github.com/Skotchmaster/bookstore/internal/es"
	"github.com/Skotchmaster/bookstore/internal/handlers"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/mykafka"
	"github.com/Skotchmaster/bookstore/internal/seed"
	httpserver "github.com/Skotchmaster/bookstore/internal/transport/http"
	"github.com/Skotchmaster/bookstore/internal/wishlist"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}

	if os.Getenv("SEED_DEMO") == "true" {
		if err := seed.Demo(db); err != nil {
			log.Fatalf("Ошибка загрузки демо-данных: %v", err)
		}
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer(
			[]string{configuration.KAFKA_ADDRESS},
			[]string{"cart_events", "catalog_events"},
		)
		if err != nil {
			log.Fatal(err)
		}
	}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, DB: db, Index: configuration.ES_BOOK_INDEX}
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	catalogSvc := catalog.NewService(db)
	cartSvc := cart.NewService(db)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		BookHandler:      &handlers.BookHandler{Svc: catalogSvc},
		CategoryHandler:  &handlers.CategoryHandler{DB: db, Catalog: catalogSvc},
		PublisherHandler: &handlers.PublisherHandler{DB: db},
		AuthorHandler:    &handlers.AuthorHandler{DB: db},
		SearchHandler:    searchHandler,
		CartHandler:      &cart.CartHandler{Svc: cartSvc, Producer: prod, JWTSecret: jwtSecret},
		WishlistHandler:  &wishlist.WishlistHandler{Svc: wishlist.NewService(db, cartSvc), JWTSecret: jwtSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
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

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
