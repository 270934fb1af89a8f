package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginUser     string
	loginPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the delivery server",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		password := loginPassword
		if password == "" {
			fmt.Print("Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return err
			}
			password = strings.TrimRight(line, "\r\n")
		}

		session, err := svc.Login(context.Background(), loginUser, password)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (id %s)\n", session.User, session.UserID)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Close the session and clear all local data",
	Long: `Closes the driver session. All local data is cleared, including any
records and photos that have not been uploaded to the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.Logout(context.Background()); err != nil {
			return err
		}
		fmt.Println("Session closed, local data cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted if omitted)")
	loginCmd.MarkFlagRequired("user")
}
