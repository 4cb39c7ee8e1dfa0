package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mrlokans/readreviews/internal/config"
	"github.com/mrlokans/readreviews/internal/database"
	"github.com/mrlokans/readreviews/internal/database/books"
	"github.com/mrlokans/readreviews/internal/ratings"
)

// RefreshRatingsCommand refreshes stored book ratings from the ratings
// provider without starting the server.
type RefreshRatingsCommand struct {
	DatabaseURL string
	ISBN        string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Verbose     bool

	out io.Writer
}

func NewRefreshRatingsCommand() *RefreshRatingsCommand {
	return &RefreshRatingsCommand{out: os.Stdout}
}

// ParseFlags reads the command line. Defaults come from the environment,
// the same variables the server uses.
func (cmd *RefreshRatingsCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()

	fs := flag.NewFlagSet("refresh-ratings", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabaseURL, "db", cfg.Database.URL, "Database URL: SQLite path or postgres:// URL (default $DATABASE_URL)")
	fs.StringVar(&cmd.ISBN, "isbn", "", "Refresh a single book instead of the whole catalog")
	fs.StringVar(&cmd.APIKey, "api-key", cfg.Ratings.APIKey, "Ratings API key (default $RATINGS_API_KEY)")
	fs.StringVar(&cmd.BaseURL, "base-url", cfg.Ratings.BaseURL, "Ratings API base URL")
	fs.DurationVar(&cmd.Timeout, "timeout", cfg.Ratings.Timeout, "Timeout for each ratings request")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every failed book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s refresh-ratings [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch the current rating and review count of catalog books and store them.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Refresh every book:\n")
		fmt.Fprintf(os.Stderr, "  %s refresh-ratings -db books.db\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Refresh one book:\n")
		fmt.Fprintf(os.Stderr, "  %s refresh-ratings -db books.db -isbn 0380795272\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.ISBN = strings.TrimSpace(cmd.ISBN)
	if cmd.DatabaseURL == "" {
		return fmt.Errorf("required flag -db not provided (or set DATABASE_URL)")
	}
	if cmd.APIKey == "" {
		return fmt.Errorf("required flag -api-key not provided (or set RATINGS_API_KEY)")
	}

	return nil
}

func (cmd *RefreshRatingsCommand) Run() error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, "Ratings Refresh")
	fmt.Fprintln(out, "===============")

	db, err := database.NewDatabase(cmd.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	client := ratings.NewGoodreadsClient(cmd.BaseURL, cmd.APIKey, cmd.Timeout)
	enricher := ratings.NewEnricher(client, books.NewRepository(db.DB), 1)
	ctx := context.Background()

	if cmd.ISBN != "" {
		r, err := enricher.RefreshBook(ctx, cmd.ISBN)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", cmd.ISBN, err)
		}
		fmt.Fprintf(out, "%s: %.2f from %d reviews\n", r.ISBN, r.AverageRating, r.ReviewsCount)
		return nil
	}

	result, err := enricher.RefreshAll(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\n=== Summary ===")
	fmt.Fprintf(out, "Books: %d\n", result.TotalBooks)
	fmt.Fprintf(out, "Refreshed: %d\n", result.Refreshed)
	fmt.Fprintf(out, "Failed: %d\n", result.Failed)

	if cmd.Verbose && len(result.Errors) > 0 {
		fmt.Fprintf(out, "\n%d errors occurred:\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "  [ERROR] %s\n", msg)
		}
	}

	return nil
}
