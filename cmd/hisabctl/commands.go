package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Behyna/hisabkitab/internal/auth"
	"github.com/Behyna/hisabkitab/internal/config"
	"github.com/Behyna/hisabkitab/internal/repository"
	"github.com/Behyna/hisabkitab/pkg/gormdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoSecret = errors.New("auth.secret is not configured")

type rootOptions struct {
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "hisabctl",
		Short:         "Administer the HisabKitab ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config", "./config", "directory containing config.yml")

	rootCmd.AddCommand(newSchemaCmd(opts), newTokenCmd(opts))

	return rootCmd
}

// newSchemaCmd opens the configured store and creates missing tables.
func newSchemaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Ensure the customers and transactions tables exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(opts.configDir)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := gormdb.NewConnection(ctx, cfg.Database, zap.NewNop())
			if err != nil {
				return err
			}
			defer gormdb.Close(db)

			if err := repository.EnsureSchema(db); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and verify API tokens",
	}

	var ttl time.Duration
	issueCmd := &cobra.Command{
		Use:   "issue <username>",
		Short: "Print a signed token for username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := loadSigner(opts)
			if err != nil {
				return err
			}

			var token string
			if ttl > 0 {
				token, err = signer.IssueWithTTL(args[0], ttl)
			} else {
				token, err = signer.Issue(args[0])
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.ttl)")

	verifyCmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Print the subject and expiry of a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := loadSigner(opts)
			if err != nil {
				return err
			}

			result := signer.Decode(args[0])
			if !result.Valid() {
				return fmt.Errorf("token rejected: %s", result.Reason)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "subject: %s\nexpires: %s\n",
				result.Claims.Subject,
				time.Unix(result.Claims.ExpiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	tokenCmd.AddCommand(issueCmd, verifyCmd)
	return tokenCmd
}

func loadSigner(opts *rootOptions) (*auth.Signer, error) {
	cfg, err := config.LoadFrom(opts.configDir)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.Secret == "" {
		return nil, errNoSecret
	}
	return auth.NewSigner(cfg.Auth.Secret, cfg.Auth.TTL)
}
