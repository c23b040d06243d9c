package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/temcen/laptop-advisor/internal/config"
	"github.com/temcen/laptop-advisor/internal/database"
	"github.com/temcen/laptop-advisor/internal/services"
	"github.com/temcen/laptop-advisor/pkg/models"
)

type rootOptions struct {
	catalogPath string
	logLevel    string
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:          "advisorctl",
		Short:        "Laptop advisor command line tool",
		SilenceUsage: true,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Path to a SQLite catalog (overrides catalog.sqlite_path)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(newSeedCmd(opts), newChatCmd(opts), newRecommendCmd(opts))
	return rootCmd
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if parsed, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}

// loadServices builds the service graph the server uses, minus HTTP.
func loadServices(opts *rootOptions) (*services.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.catalogPath != "" {
		cfg.Catalog.Driver = "sqlite"
		cfg.Catalog.SQLitePath = opts.catalogPath
	}

	logger := newLogger(opts.logLevel)
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := services.New(cfg, logger, db, nil)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, func() {
		svc.Close()
		db.Close()
	}, nil
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a SQLite catalog with the bundled sample laptops",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.catalogPath
			if path == "" {
				path = "./data/catalog.db"
			}
			c, err := services.OpenSQLiteCatalog(cmd.Context(), path, true)
			if err != nil {
				return err
			}
			defer c.Close()

			products, err := c.Query(cmd.Context(), models.CatalogFilter{PriceMin: 0, PriceMax: 1e9})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d laptops into %s\n", len(products), path)
			return nil
		},
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the advisor from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeAll, err := loadServices(opts)
			if err != nil {
				return err
			}
			defer closeAll()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			sessionID := ""
			fmt.Fprint(out, "> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "quit" || line == "exit" {
					break
				}
				if line == "" {
					fmt.Fprint(out, "> ")
					continue
				}

				resp := svc.Conversation.ProcessTurn(cmd.Context(), models.TurnRequest{
					UserID:    userID,
					SessionID: sessionID,
					Message:   line,
				})
				sessionID = resp.SessionID
				printTurn(out, resp)
				fmt.Fprint(out, "> ")
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "cli", "User id")
	return cmd
}

func printTurn(out io.Writer, resp *models.TurnResponse) {
	fmt.Fprintf(out, "%s\n", resp.Response)
	for i, rec := range resp.Recommendations {
		fmt.Fprintf(out, "  %d. %s  $%.0f  score %.2f\n", i+1, rec.Candidate.Name, rec.Candidate.Price, rec.Score)
	}
	if len(resp.Affordances) > 0 {
		labels := make([]string, 0, len(resp.Affordances))
		for _, a := range resp.Affordances {
			labels = append(labels, a.Label)
		}
		fmt.Fprintf(out, "  [%s]\n", strings.Join(labels, " | "))
	}
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		userID    string
		budgetMin float64
		budgetMax float64
		purposes  []string
		brands    []string
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Score the catalog against explicit preferences and print JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if budgetMax > 0 && budgetMin > budgetMax {
				return fmt.Errorf("--min %.0f is above --max %.0f", budgetMin, budgetMax)
			}

			svc, closeAll, err := loadServices(opts)
			if err != nil {
				return err
			}
			defer closeAll()

			prefs := models.Preferences{Purposes: purposes, Brands: brands}
			if budgetMax > 0 {
				prefs.Budget = &models.BudgetRange{Min: budgetMin, Max: budgetMax, Source: models.BudgetFromExplicit}
			}

			result, _ := svc.Engine.RecommendFromPreferences(cmd.Context(), prefs, userID)
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "cli", "User id")
	cmd.Flags().Float64Var(&budgetMin, "min", 0, "Minimum budget")
	cmd.Flags().Float64Var(&budgetMax, "max", 0, "Maximum budget")
	cmd.Flags().StringSliceVar(&purposes, "purpose", nil, "Purposes (gaming, work, student, creative)")
	cmd.Flags().StringSliceVar(&brands, "brand", nil, "Preferred brands")
	return cmd
}
