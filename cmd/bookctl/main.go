// cmd/bookctl/main.go
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"bookhive/internal/catalog"
	"bookhive/internal/config"
	"bookhive/internal/importer"
	"bookhive/internal/metadata"

	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
)

func main() {
	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Catalog operations for bookhive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(importCmd(), lookupCmd(), addCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openCatalog() (catalog.Service, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database unreachable: %w", err)
	}
	return catalog.NewService(db), db, nil
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load the bundled book list into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, err := openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := importer.RunBundled(cmd.Context(), svc)
			for _, line := range report.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), line)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d book(s)\n", report.Added)
			return nil
		},
	}
}

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <title>",
		Short: "Search Google Books for a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := metadata.NewClient().SearchByTitle(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Title:  %s\nAuthor: %s\nCover:  %s\n", info.Title, info.Author, info.CoverURL)
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Look up a title and add it to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := metadata.NewClient().SearchByTitle(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			svc, db, err := openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			book, err := svc.AddBook(cmd.Context(), info.Title, info.Author, info.CoverURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q by %s (%s)\n", book.Title, book.Author, book.ID)
			return nil
		},
	}
}
