package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/viper"

	"github.com/vuqt/mailship"
	"github.com/vuqt/mailship/bolt"
	"github.com/vuqt/mailship/gmail"
	"github.com/vuqt/mailship/http"
	"github.com/vuqt/mailship/postgres"
	"github.com/vuqt/mailship/postmark"
	"github.com/vuqt/mailship/rabbitmq"
)

func main() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("db.type", "postgres")
	viper.SetDefault("email.provider", "postmark")
	viper.SetDefault("email.timeout", 10*time.Second)
	viper.SetDefault("amqp.topic", "newsletters")

	var config *mailship.Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn: config.Sentry.DSN,
	}); err != nil {
		log.Fatalf("sentry.Init: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	a := newApp(config)

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		cancel()
	}()

	if err := a.Run(ctx); err != nil {
		_ = a.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	config              *mailship.Config
	db                  mailship.Database
	subscriptionService mailship.SubscriptionService
	queue               mailship.QueueService
	httpServer          *http.Server
}

func newApp(config *mailship.Config) *app {
	httpServer, err := http.NewServer()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	a := &app{
		config:     config,
		httpServer: httpServer,
	}

	switch config.DB.Type {
	case "bolt":
		db := bolt.NewDB(config.DB.Path)
		a.db = db
		a.subscriptionService = bolt.NewSubscriptionService(db)
	default:
		db := postgres.NewDB(config.DB.DSN)
		a.db = db
		a.subscriptionService = postgres.NewSubscriptionService(db)
	}

	return a
}

// wireServices attaches the store and email provider to the HTTP server. It
// must run before the server starts listening.
func (a *app) wireServices() {
	a.httpServer.SubscriptionService = a.subscriptionService

	switch a.config.Email.Provider {
	case "smtp":
		a.httpServer.EmailService = gmail.NewEmailService(a.config, a.config.HTTP.BaseURL)
	default:
		a.httpServer.EmailService = postmark.NewEmailService(a.config)
	}
}

func (a *app) Run(ctx context.Context) error {
	if err := a.db.Open(); err != nil {
		return err
	}

	a.httpServer.Addr = a.config.HTTP.Addr
	a.httpServer.BaseURL = a.config.HTTP.BaseURL

	// the handlers dereference both services; wire them before serving
	a.wireServices()

	if err := a.httpServer.Open(); err != nil {
		return err
	}

	if a.config.AMQP.URL != "" {
		queue, err := rabbitmq.NewQueueService(a.config.AMQP.URL)
		if err != nil {
			return err
		}
		a.queue = queue

		messages, err := queue.Consume(ctx, a.config.AMQP.Topic)
		if err != nil {
			return err
		}
		go a.dispatchNewsletters(ctx, messages)
	}

	return nil
}

// dispatchNewsletters delivers queued issues to confirmed subscribers.
func (a *app) dispatchNewsletters(ctx context.Context, messages <-chan []byte) {
	for msg := range messages {
		var issue mailship.NewsletterIssue
		if err := json.Unmarshal(msg, &issue); err != nil {
			sentry.CaptureException(err)
			continue
		}

		confirmed, err := a.subscriptionService.SubscribersByStatus(ctx, mailship.StatusConfirmed)
		if err != nil {
			sentry.CaptureException(err)
			continue
		}

		a.httpServer.EmailService.SendNewsletter(ctx, confirmed, &issue)
	}
}

func (a *app) Close() error {
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			return err
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Close(); err != nil {
			return err
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return err
		}
	}

	return nil
}
