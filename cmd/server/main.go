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
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cloneoverflow/backend/internal/config"
	"github.com/cloneoverflow/backend/internal/es"
	"github.com/cloneoverflow/backend/internal/handlers"
	"github.com/cloneoverflow/backend/internal/logging"
	"github.com/cloneoverflow/backend/internal/middleware"
	"github.com/cloneoverflow/backend/internal/mykafka"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/security"
	"github.com/cloneoverflow/backend/internal/service"
	"github.com/cloneoverflow/backend/internal/service/search"
	"github.com/cloneoverflow/backend/internal/tokens"
	httpserver "github.com/cloneoverflow/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	}

	var searchService *search.Service
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchService = &search.Service{ES: esClient, Index: "question"}
	}

	issuer := tokens.NewIssuer(tokens.Config{Secret: []byte(configuration.TOKEN_SECRET)})
	sanitizer := security.NewSanitizer()

	userRepo := &repo.UserRepo{DB: db}
	questionRepo := &repo.QuestionRepo{DB: db}
	answerRepo := &repo.AnswerRepo{DB: db}
	tagRepo := &repo.TagRepo{DB: db}

	authService := &service.AuthService{Users: userRepo, Issuer: issuer, Sanitizer: sanitizer}
	userService := &service.UserService{Users: userRepo, Questions: questionRepo, Answers: answerRepo, Sanitizer: sanitizer}
	questionService := &service.QuestionService{Questions: questionRepo, Sanitizer: sanitizer, Search: searchService}
	answerService := &service.AnswerService{Answers: answerRepo, Questions: questionRepo, Sanitizer: sanitizer}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer limiter.Stop()
	e.Use(limiter.Middleware())

	deps := httpserver.Deps{
		DB:              db,
		Issuer:          issuer,
		AuthHandler:     &handlers.AuthHandler{Auth: authService, Producer: producer},
		UserHandler:     &handlers.UserHandler{Users: userService},
		QuestionHandler: &handlers.QuestionHandler{Questions: questionService, Producer: producer},
		AnswerHandler:   &handlers.AnswerHandler{Answers: answerService},
		TagHandler:      &handlers.TagHandler{Tags: tagRepo},
		SearchHandler:   &handlers.SearchHandler{Search: searchService},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.SERVER_ADDRESS,
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

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
