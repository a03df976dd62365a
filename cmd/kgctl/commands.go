package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kindergarten/internal/config"
	"kindergarten/internal/database"
	"kindergarten/internal/logging"
	"kindergarten/internal/models"
	"kindergarten/internal/repository"
	"kindergarten/internal/security"
	"kindergarten/internal/service"
)

// app is what every subcommand needs once configuration is loaded
type app struct {
	cfg    *config.Config
	db     *database.DB
	logger *zap.Logger
}

func (a *app) close() {
	_ = a.db.Close()
	_ = a.logger.Sync()
}

func (a *app) authService() *service.AuthService {
	return service.NewAuthService(repository.NewUserRepository(a.db), security.NewTokenIssuer(a.cfg.TokenSecret), a.cfg.SessionDuration)
}

// openApp loads configuration, connects and brings the schema up to date
func openApp(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(cfg.LogLevel, "console", stderr)

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if _, err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &app{cfg: cfg, db: db, logger: logger}, nil
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "kgctl",
		Short:         "Operator tool for the kindergarten records server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				return os.Setenv("KINDERGARTEN_CONFIG", configFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (overrides KINDERGARTEN_CONFIG)")

	root.AddCommand(newMigrateCommand(), newCreateUserCommand(), newTokenCommand(), newExportCommand())
	return root
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newCreateUserCommand() *cobra.Command {
	var email, name, password, role string

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a login account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.authService().Register(cmd.Context(), email, password, name, role)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			a.logger.Info("user created", zap.Int64("id", user.ID), zap.String("email", user.Email), zap.String("role", user.Role))
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with id %d\n", user.Email, user.Role, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&role, "role", models.RoleUser, "role: admin or user")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newTokenCommand() *cobra.Command {
	var email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API bearer token for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}
			a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			token, err := a.authService().IssueToken(cmd.Context(), email, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token for %s: %w", email, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record to a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			w := cmd.OutOrStdout()
			if output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			backup := service.NewBackupService(service.BackupSources{
				Positions:  repository.NewPositionRepository(a.db),
				GroupTypes: repository.NewGroupTypeRepository(a.db),
				Staff:      repository.NewStaffRepository(a.db),
				Parents:    repository.NewParentRepository(a.db),
				Groups:     repository.NewGroupRepository(a.db),
				Children:   repository.NewChildRepository(a.db),
			}, a.logger)
			_, err = backup.Export(cmd.Context(), w)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
