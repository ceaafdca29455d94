package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/centavohq/centavo-books/internal/adapters/fetch"
	"github.com/centavohq/centavo-books/internal/core/ports"
	"github.com/centavohq/centavo-books/internal/core/services"
	"github.com/centavohq/centavo-books/internal/crypto"
	"github.com/centavohq/centavo-books/internal/logging"
	"github.com/centavohq/centavo-books/internal/render"
	"github.com/centavohq/centavo-books/pkg/config"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	now := time.Now()
	year := flag.Int("year", now.Year(), "year of the period to derive")
	month := flag.Int("month", int(now.Month()), "month of the period to derive (1-12)")
	plain := flag.Bool("plain", false, "print raw markdown instead of rendering it")
	flag.Parse()

	dec, err := crypto.NewAESFieldDecrypterFromHex(cfg.EncryptionKeyHex)
	if err != nil {
		logger.Error("Failed to initialize field decrypter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var provider ports.AccountingDataProvider
	switch {
	case cfg.FixturePath != "":
		provider = fetch.NewFileProvider(cfg.FixturePath)
	case cfg.APIBaseURL != "":
		provider = fetch.NewHTTPProvider(cfg.APIBaseURL, cfg.APIKey, cfg.AuthToken)
	default:
		logger.Error("No data source configured: set FIXTURE_PATH or API_BASE_URL")
		os.Exit(1)
	}

	container := services.NewServicesContainer(provider, dec, cfg.Locale)

	ctx := logging.WithLogger(context.Background(), logger)
	report, err := container.Books.Refresh(ctx, *year, time.Month(*month), cfg.Currency)
	if err != nil {
		logger.Error("Failed to derive books",
			slog.Int("year", *year),
			slog.Int("month", *month),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	markdown := render.New(cfg.Currency, cfg.Locale).Report(report)
	if *plain {
		fmt.Println(markdown)
		return
	}

	pretty, err := glamour.Render(markdown, "dark")
	if err != nil {
		// Fall back to the raw markdown if the terminal renderer chokes.
		logger.Warn("Markdown rendering failed", slog.String("error", err.Error()))
		fmt.Println(markdown)
		return
	}
	fmt.Print(pretty)
}
