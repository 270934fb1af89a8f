package cmd

import (
	"context"
	"errors"
	"fmt"

	"example.com/fieldtrack/agent/internal/service"

	"github.com/spf13/cobra"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Pull the assigned route from the server",
	Long: `Downloads the full record collection for the logged-in driver and
replaces the local copy. Refused while unsynced local changes exist;
push first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := svc.Refresh(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Downloaded %d records.\n", len(records))
		return nil
	},
}

// pushCmd represents the push command
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload pending local changes to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		err = svc.Push(context.Background())
		if errors.Is(err, service.ErrNothingToPush) {
			fmt.Println("Already up to date, nothing to push.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Println("Local changes synchronized with the server.")
		return nil
	},
}

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload every staged photo to the server",
	Long: `Uploads the staged photos institution by institution. Each confirmed
upload deletes the local copy immediately; the first failure aborts the
flow, keeping the remaining photos staged for a retry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		uploaded, err := svc.UploadImages(context.Background())
		if errors.Is(err, service.ErrNoAttachments) {
			fmt.Println("No images pending upload.")
			return nil
		}
		if err != nil {
			if uploaded > 0 {
				fmt.Printf("Uploaded %d images before the failure.\n", uploaded)
			}
			return err
		}

		fmt.Printf("All %d images uploaded.\n", uploaded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(uploadCmd)
}
