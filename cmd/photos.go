package cmd

import (
	"context"
	"fmt"
	"strconv"

	"example.com/fieldtrack/agent/internal/service"
	"example.com/fieldtrack/agent/internal/storage"

	"github.com/spf13/cobra"
)

var captureFile string

// photosCmd represents the photos command
var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Manage the delivery photos of a record",
}

var photosListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List the photos staged and saved for a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		state, err := svc.Photos(context.Background(), args[0])
		if err != nil {
			return err
		}
		printPhotoState(state)
		return nil
	},
}

var photosCaptureCmd = &cobra.Command{
	Use:   "capture <id>",
	Short: "Stage a photo for a record",
	Long: `Stages an image file as a delivery photo. The photo counts against the
per-institution limit immediately but is only attached to the record
when the record is finalized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(storage.FileCamera{Path: captureFile})
		if err != nil {
			return err
		}
		defer cleanup()

		state, err := svc.Capture(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Photo staged, %d of %d in use.\n", state.Count, state.Capacity)
		return nil
	},
}

var photosRemoveCmd = &cobra.Command{
	Use:   "remove <id> <index>",
	Short: "Remove a staged photo by index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}

		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		state, err := svc.RemoveStaged(context.Background(), args[0], index)
		if err != nil {
			return err
		}
		fmt.Printf("Photo removed, %d of %d in use.\n", state.Count, state.Capacity)
		return nil
	},
}

var photosRemoveSavedCmd = &cobra.Command{
	Use:   "remove-saved <id> <index>",
	Short: "Remove a saved photo by index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[1])
		}

		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		state, err := svc.RemoveSaved(context.Background(), args[0], index)
		if err != nil {
			return err
		}
		fmt.Printf("Photo removed, %d of %d in use.\n", state.Count, state.Capacity)
		return nil
	},
}

func printPhotoState(state *service.PhotoState) {
	fmt.Printf("%d of %d photos in use\n", state.Count, state.Capacity)
	if len(state.Staged.LocalPaths) > 0 {
		fmt.Println("Staged:")
		for i, p := range state.Staged.LocalPaths {
			fmt.Printf("  [%d] %s\n", i, p)
		}
	}
	if len(state.Saved.LocalPaths) > 0 {
		fmt.Println("Saved:")
		for i, p := range state.Saved.LocalPaths {
			fmt.Printf("  [%d] %s\n", i, p)
		}
	}
}

func init() {
	photosCaptureCmd.Flags().StringVar(&captureFile, "file", "", "image file to stage")
	photosCaptureCmd.MarkFlagRequired("file")

	photosCmd.AddCommand(photosListCmd)
	photosCmd.AddCommand(photosCaptureCmd)
	photosCmd.AddCommand(photosRemoveCmd)
	photosCmd.AddCommand(photosRemoveSavedCmd)
	rootCmd.AddCommand(photosCmd)
}
