package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/db"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/jojuma-project/backend/internal/models"
	"github.com/jojuma-project/backend/internal/services"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		user     models.User
		password string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with a bcrypt-hashed password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user.Username == "" {
				return errors.New("--username is required")
			}
			secret, err := resolvePassword(password, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pgDB, err := db.ConnectPostgres(cfg)
			if err != nil {
				return err
			}

			auth := services.NewAuthService(services.NewGormUserRepository(pgDB), cfg.Auth)
			if !auth.ProjectAllowed(user.Project) {
				logger.Warn("Project %q is not in AUTH_ALLOWED_PROJECTS; %s will not be able to sign in", user.Project, user.Username)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := auth.Register(ctx, &user, secret); err != nil {
				return err
			}
			logger.Info("Created user %s (id %d, project %s)", user.Username, user.ID, user.Project)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user.Username, "username", "u", "", "Login name")
	cmd.Flags().StringVar(&password, "password", "", "Plain-text password; prefer $"+passwordEnv+" or stdin")
	cmd.Flags().StringVar(&user.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&user.Project, "project", "jojuma", "Project the account belongs to")
	cmd.Flags().StringVar(&user.Type, "type", "", "Account type; \"admin\" may trigger refreshes")
	return cmd
}

// passwordEnv is read when --password is absent.
const passwordEnv = "FUELBI_PASSWORD"

// resolvePassword takes the flag value, then $FUELBI_PASSWORD, then the first line of in.
func resolvePassword(flagValue string, in io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(passwordEnv); v != "" {
		return v, nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password required: pipe it on stdin or set " + passwordEnv)
	}
	return line, nil
}
