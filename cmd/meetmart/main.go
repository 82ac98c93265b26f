package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/meetmart/meetmart/internal/api"
	"github.com/meetmart/meetmart/internal/app"
	"github.com/meetmart/meetmart/internal/cli"
	"github.com/meetmart/meetmart/internal/config"
	"github.com/meetmart/meetmart/internal/handlers"
	"github.com/meetmart/meetmart/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting MeetMart client...")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Application context: config, persistence, backend clients.
	a, err := app.New(ctx, cfg, l, func(text string) {
		fmt.Println(text)
	})
	if err != nil {
		l.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	// Command router
	router := cli.NewRouter(l)

	router.RegisterCommand("help", handlers.NewHelpHandler(l))

	// Account handlers
	router.RegisterCommand("signup", handlers.NewSignupHandler(a, l))
	router.RegisterCommand("verify", handlers.NewVerifyHandler(a, l))
	router.RegisterCommand("login", handlers.NewLoginHandler(a, l))
	router.RegisterCommand("logout", handlers.NewLogoutHandler(a, l))
	router.RegisterCommand("whoami", handlers.NewWhoamiHandler(a, l))
	router.RegisterCommand("forgot-password", handlers.NewForgotPasswordHandler(a, l))
	router.RegisterCommand("reset-password", handlers.NewResetPasswordHandler(a, l))

	// Catalog handlers
	router.RegisterCommand("stores", handlers.NewStoresHandler(a, l))
	router.RegisterCommand("goods", handlers.NewGoodsHandler(a, l))
	router.RegisterCommand("item", handlers.NewItemHandler(a, l))

	// Cart and checkout handlers
	router.RegisterCommand("cart", handlers.NewCartHandler(a, l))
	router.RegisterCommand("checkout", handlers.NewCheckoutHandler(a, l))
	router.RegisterCommand("pay-verify", handlers.NewPayVerifyHandler(a, l))

	// Order handlers
	router.RegisterCommand("orders", handlers.NewOrdersHandler(a, l))
	router.RegisterCommand("order", handlers.NewOrderHandler(a, l))
	router.RegisterCommand("meet", handlers.NewMeetHandler(a, l))
	router.RegisterCommand("release", handlers.NewReleaseHandler(a, l))
	router.RegisterCommand("retract", handlers.NewRetractHandler(a, l))
	router.RegisterCommand("rate", handlers.NewRateHandler(a, l))

	// Chat handler
	router.RegisterCommand("chat", handlers.NewChatHandler(a, l))

	// Preferences and admin
	router.RegisterCommand("theme", handlers.NewThemeHandler(a, l))
	router.RegisterCommand("admin", handlers.NewAdminHandler(a, l))

	// Local HTTP surface: health, metrics, payment callback landing page.
	apiServer := api.NewServer(a.Registry, func(reference string) {
		fmt.Printf("\nPayment callback received for %s. Run: pay-verify %s\n> ", reference, reference)
	}, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	repl := cli.NewREPL(router, l)
	if err := repl.Run(ctx, os.Stdin, os.Stdout); err != nil {
		l.Errorf("REPL error: %v", err)
	}

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	l.Info("MeetMart client stopped")
}
