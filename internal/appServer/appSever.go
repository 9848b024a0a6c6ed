// launching the server, redis, rabbitmq, background workers
package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sehat-saathi/reminder-service/config"
	"github.com/sehat-saathi/reminder-service/internal/channel"
	"github.com/sehat-saathi/reminder-service/internal/database"
	"github.com/sehat-saathi/reminder-service/internal/notifier"
	"github.com/sehat-saathi/reminder-service/internal/rabbitMQ"
	"github.com/sehat-saathi/reminder-service/internal/service"
	"github.com/sehat-saathi/reminder-service/internal/transport"
	"github.com/sehat-saathi/reminder-service/internal/worker"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
		IdleTimeout:  cfg.Redis.IdleTimeout,
	})

	var rabbitMQURL string
	if cfg.Rabbit.URL != "" {
		rabbitMQURL = cfg.Rabbit.URL
	} else {
		rabbitMQURL = fmt.Sprintf("amqp://%s:%s@%s:%d/",
			cfg.Rabbit.Username,
			cfg.Rabbit.Password,
			cfg.Rabbit.Host,
			cfg.Rabbit.Port)
	}

	alertQueue, err := rabbitMQ.NewRabbitMQ(rabbitMQ.RabbitMQConfig{
		URL:       rabbitMQURL,
		QueueName: cfg.Rabbit.QueueName,
	})
	if err != nil {
		logrus.Fatalf("Failed to connect to RabbitMQ: %s", err.Error())
	}
	defer alertQueue.Close()

	repo := database.NewRedisRepository(redisClient)

	dispatcher := notifier.NewDispatcher(repo, nil)
	if cfg.Telegram.Enabled {
		bot, err := notifier.NewTelegramBot(cfg.Telegram.BotToken)
		if err != nil {
			logrus.Warnf("Telegram push disabled: %s", err.Error())
		} else if bot != nil {
			dispatcher = notifier.NewDispatcher(repo, bot)
		}
	}

	reminderUseCase := service.NewReminderUseCase(repo, dispatcher, cfg.Checker.SnoozeMinutes)
	alertUseCase := service.NewAlertUseCase(repo, alertQueue, dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := alertUseCase.StartConsumer(ctx); err != nil {
		logrus.Fatalf("Failed to start alert consumer: %s", err.Error())
	}

	checker := worker.NewChecker(reminderUseCase, cfg.Checker.Interval)
	go checker.Start(ctx)

	dailyReset := worker.NewDailyReset(reminderUseCase)
	if err := dailyReset.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start daily reset job: %s", err.Error())
	}
	defer dailyReset.Stop()

	newChannel := func() *channel.Remote {
		return channel.NewRemote(redisClient)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(reminderUseCase, alertUseCase, newChannel)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
