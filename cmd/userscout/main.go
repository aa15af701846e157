package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/splax/userscout/internal/ensemble"
	"github.com/splax/userscout/internal/render"
	"github.com/splax/userscout/internal/search"
	"github.com/splax/userscout/pkg/config"
)

var buildVersion = "dev"

// readToken is a test seam for term.ReadPassword.
var readToken = term.ReadPassword

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "search":
		err = commandSearch(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commandSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	platformName := fs.String("platform", "tiktok", "Platform to search (tiktok, instagram, threads)")
	query := fs.String("query", "", "Search query")
	maxResults := fs.Int("max", search.DefaultResults, "Maximum number of results (1-100)")
	token := fs.String("token", "", "EnsembleData API token (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL override")
	output := fs.String("o", "", "Write CSV to this file instead of printing a table")
	asCSV := fs.Bool("csv", false, "Print CSV to stdout instead of a table")
	fs.Parse(args)

	if strings.TrimSpace(*query) == "" {
		return errors.New("-query is required")
	}

	secret := strings.TrimSpace(*token)
	if secret == "" {
		secret = strings.TrimSpace(config.GetString("USERSCOUT_TOKEN", ""))
	}
	if secret == "" {
		fmt.Fprint(os.Stderr, "EnsembleData API token: ")
		raw, err := readToken(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		secret = strings.TrimSpace(string(raw))
	}

	client, err := ensemble.New(*apiBase)
	if err != nil {
		return err
	}
	svc := search.New(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := svc.Search(ctx, search.Request{
		Platform:   *platformName,
		Query:      *query,
		Token:      secret,
		MaxResults: *maxResults,
	})
	if err != nil {
		return err
	}

	table := render.Build(result.Platform, result.Records)

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		if err := render.WriteCSV(f, table); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("wrote %d results to %s\n", len(result.Records), *output)
		return nil
	}
	if *asCSV {
		return render.WriteCSV(os.Stdout, table)
	}

	fmt.Printf("Found %d results\n", len(result.Records))
	return render.WriteText(os.Stdout, table)
}

func printVersion() {
	fmt.Printf("userscout %s\n", buildVersion)
}

func printUsage() {
	fmt.Println(`userscout - search social media users via the EnsembleData API

Usage:
  userscout search -platform <tiktok|instagram|threads> -query <text> [-max N] [-token T] [-o file.csv] [-csv]
  userscout version
  userscout help

The API token can also be supplied via the USERSCOUT_TOKEN environment
variable; otherwise it is prompted for without echo.`)
}
