package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"derrclan.com/verse-sdk/internal/config"
	"derrclan.com/verse-sdk/internal/notify"
	"derrclan.com/verse-sdk/internal/transport"
	"derrclan.com/verse-sdk/internal/votd"
)

func main() {
	to := flag.String("to", "", "recipient email address")
	translation := flag.Int("translation", 0, "translation id (default from VERSE_TRANSLATION_ID)")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	config.SetupLogging(os.Stderr, cfg.LogLevel)

	if *to == "" {
		slog.Error("missing -to recipient")
		os.Exit(2)
	}
	mail, err := notify.MailConfigFromEnv()
	if err != nil {
		slog.Error("cannot send mail", "error", err)
		os.Exit(1)
	}

	id := *translation
	if id <= 0 {
		id = cfg.TranslationID
	}

	ctx := context.Background()
	client := votd.New(votd.Config{BaseURL: cfg.APIBaseURL, FallbackToken: cfg.FallbackToken}, transport.New(cfg.Transport()), nil)
	verse, err := client.FetchWithFallbackToken(ctx, id)
	if err != nil {
		slog.Error("failed to fetch verse of the day", "error", err)
		os.Exit(1)
	}

	if err := notify.SendVerse(ctx, mail, *to, verse.Display()); err != nil {
		slog.Error("failed to send verse", "error", err)
		os.Exit(1)
	}
}
