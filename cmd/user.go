package main

import (
	"fmt"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
	"task_tracker/internal/repository/db"
	"task_tracker/internal/service"

	"github.com/spf13/cobra"
)

var userEmail string

// userCmd groups account administration that has no HTTP surface.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant the ADMIN role to a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSetRole(cmd, models.RoleAdmin)
	},
}

var userDemoteCmd = &cobra.Command{
	Use:   "demote",
	Short: "Reset a user to the USER role",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSetRole(cmd, models.RoleUser)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userPromoteCmd, userDemoteCmd)
	userCmd.PersistentFlags().StringVar(&userEmail, "email", "", "email of the account to change")
	_ = userCmd.MarkPersistentFlagRequired("email")
}

func runSetRole(cmd *cobra.Command, role string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.DB.Validate(); err != nil {
		return err
	}
	dialect, err := repository.ParseDialect(cfg.DB.Driver)
	if err != nil {
		return err
	}

	conn, err := db.Open(cmd.Context(), dbConfig(cfg.DB))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	repos := repository.NewRepository(conn, dialect)
	users := service.NewUserService(repos.Users, repos.Tasks)
	if err := users.SetRole(cmd.Context(), userEmail, role); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", service.NormalizeEmail(userEmail), role)
	return nil
}
