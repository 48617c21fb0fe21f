package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ulproj/ul-projector/internal/ratetable"
	"github.com/ulproj/ul-projector/internal/store/sqlite"
)

func addRateFlags(cmd *cobra.Command) {
	cmd.Flags().String("rates", "", "Directory of rate CSV files")
	cmd.Flags().String("db", "", "SQLite rate database")
	cmd.MarkFlagsMutuallyExclusive("rates", "db")
}

// loadRateBook reads the book named by --db or --rates, falling back to the
// built-in sample book.
func loadRateBook(ctx context.Context, cmd *cobra.Command) (*ratetable.Book, error) {
	ratesDir, _ := cmd.Flags().GetString("rates")
	dbPath, _ := cmd.Flags().GetString("db")
	return openRateBook(ctx, ratesDir, dbPath)
}

func openRateBook(ctx context.Context, ratesDir, dbPath string) (*ratetable.Book, error) {
	switch {
	case dbPath != "":
		store, err := sqlite.New(dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		book, err := store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load rates from %s: %w", dbPath, err)
		}
		return book, nil
	case ratesDir != "":
		return ratetable.LoadDir(ratesDir)
	default:
		return ratetable.SampleBook(), nil
	}
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage rate books",
	}

	exportCmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Write a rate book as CSV files",
		Long:  "Write the book named by --db or --rates, or the built-in sample book, as one CSV file per rate table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := loadRateBook(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if err := book.ExportDir(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", len(book.Products()), args[0])
			return nil
		},
	}
	addRateFlags(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Load CSV rate files into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			book, err := ratetable.LoadDir(args[0])
			if err != nil {
				return err
			}
			store, err := sqlite.New(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Import(cmd.Context(), book); err != nil {
				return err
			}
			products, err := store.Products(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products into %s\n", len(products), dbPath)
			return nil
		},
	}
	importCmd.Flags().String("db", "", "SQLite rate database")
	importCmd.MarkFlagRequired("db")

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}
