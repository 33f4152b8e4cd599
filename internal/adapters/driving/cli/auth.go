package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authTokenFlag string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage directory credentials",
	Long: `Manage the token used to resolve candidate identities.

Disclosure looks candidates up in the directory service, which requires a
bearer token. The token is stored with restricted permissions in the hira
config directory.

Examples:
  # Prompt for the token (input is hidden)
  hira auth login

  # Non-interactive
  hira auth login --token "xxx"

  # Check whether a token is configured
  hira auth status`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the directory token",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored directory token",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a directory token is configured",
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().StringVar(&authTokenFlag, "token", "", "directory token (prompts if omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	token := strings.TrimSpace(authTokenFlag)
	if token == "" {
		cmd.Print("Directory token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return errors.New("token is required")
	}

	if err := configStore.Set("directory.token", token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	cmd.Println("Directory token stored.")
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set("directory.token", ""); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}

	cmd.Println("Directory token removed.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if configStore.GetString("directory.token") == "" {
		cmd.Println("No directory token configured. Disclosure will fail until you run 'hira auth login'.")
		return nil
	}

	cmd.Println("Directory token is configured.")
	if url := configStore.GetString("directory.url"); url != "" {
		cmd.Printf("Directory URL: %s\n", url)
	}
	return nil
}
