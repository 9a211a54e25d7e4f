package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"death-on-the-cards/internal/api"
	"death-on-the-cards/internal/config"
	"death-on-the-cards/internal/debug"
	"death-on-the-cards/internal/feed"
	"death-on-the-cards/internal/game"
	"death-on-the-cards/internal/journal"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("dotenv load failed error=%v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed error=%v", err)
	}

	var rec game.Recorder
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath, cfg.GameID)
		if err != nil {
			log.Fatalf("journal open failed path=%s error=%v", cfg.JournalPath, err)
		}
		rec = j
	}

	client := api.NewClient(cfg.APIBaseURL)
	engine := game.New(client, rec, cfg.GameID, cfg.PlayerID, cfg.PlayerToken)

	push, err := feed.Dial(cfg.FeedURL, cfg.PlayerToken)
	if err != nil {
		log.Fatalf("feed dial failed endpoint=%s error=%v", cfg.FeedURL, err)
	}
	defer push.Close()

	for _, model := range []string{"game", "card", "player", "secret"} {
		push.OnModel(model, engine.HandlePush)
	}
	push.On("update_seconds", "timer", engine.HandlePush)
	push.On("show-secret", "devious", engine.HandlePush)
	push.On("create", "chat", engine.HandlePush)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DebugAddr != "" {
		go func() {
			log.Printf("debug surface listening on %s", cfg.DebugAddr)
			if err := http.ListenAndServe(cfg.DebugAddr, debug.Handler(engine)); err != nil {
				log.Printf("debug surface stopped error=%v", err)
			}
		}()
	}

	go engine.Run(ctx)
	go push.Run()
	log.Printf("engine running game_id=%d player_id=%d", cfg.GameID, cfg.PlayerID)

	select {
	case <-ctx.Done():
	case <-push.Done():
		log.Printf("push feed closed, shutting down")
	}
}
