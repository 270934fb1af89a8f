package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"example.com/fieldtrack/agent/internal/models"
	"example.com/fieldtrack/agent/internal/service"

	"github.com/spf13/cobra"
)

var (
	recordsSearch string

	draftDelivered    []string
	draftObservations string
	draftReceivedBy   string
)

// recordsCmd represents the records command
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Work with the local delivery records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the local records",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := svc.Records(context.Background(), recordsSearch)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No records on the device. Run refresh to download the route.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tINSTITUTION\tMUNICIPALITY\tSTATUS")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.DistInstID, r.Institution, r.Municipality, recordStatus(&r))
		}
		return w.Flush()
	},
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record with its product lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		record, err := svc.Record(context.Background(), args[0])
		if err != nil {
			return err
		}
		printRecord(record)
		return nil
	},
}

var recordsSaveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Apply a draft edit to an editable record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := buildDraft(cmd)
		if err != nil {
			return err
		}

		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		record, err := svc.UpdateRecord(context.Background(), args[0], draft)
		if err != nil {
			return err
		}
		fmt.Printf("Record %s updated.\n", record.DistInstID)
		return nil
	},
}

var recordsFillMaxCmd = &cobra.Command{
	Use:   "fill-max <id> <product-id>",
	Short: "Set a product line's delivered quantity to the requested one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		if _, err := svc.FillMax(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Delivered quantity set to the requested amount.")
		return nil
	},
}

var recordsFinalizeCmd = &cobra.Command{
	Use:   "finalize <id>",
	Short: "Validate and lock a record",
	Long: `Applies any draft flags, validates the record, and locks it. A locked
record can no longer be edited on the device; its contents are uploaded
on the next push.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := buildDraft(cmd)
		if err != nil {
			return err
		}

		svc, _, cleanup, err := buildService(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		record, err := svc.FinalizeRecord(context.Background(), args[0], draft)
		if err != nil {
			return err
		}
		fmt.Printf("Record %s saved on the device. Remember to push and upload the images.\n", record.DistInstID)
		return nil
	},
}

// buildDraft assembles a DraftUpdate from the shared edit flags. Only flags
// the user actually set are carried, so unset fields stay untouched.
func buildDraft(cmd *cobra.Command) (service.DraftUpdate, error) {
	draft := service.DraftUpdate{}

	if len(draftDelivered) > 0 {
		draft.Delivered = make(map[string]string, len(draftDelivered))
		for _, pair := range draftDelivered {
			id, value, ok := strings.Cut(pair, "=")
			if !ok {
				return draft, fmt.Errorf("invalid --delivered entry %q, expected <product-id>=<quantity>", pair)
			}
			draft.Delivered[id] = value
		}
	}
	if cmd.Flags().Changed("observations") {
		v := draftObservations
		draft.Observations = &v
	}
	if cmd.Flags().Changed("received-by") {
		v := draftReceivedBy
		draft.ReceivedBy = &v
	}
	return draft, nil
}

func recordStatus(r *models.DeliveryRecord) string {
	if r.Locked() {
		return "saved"
	}
	return "pending"
}

func printRecord(r *models.DeliveryRecord) {
	fmt.Printf("%s (%s)\n", r.Institution, r.DistInstID)
	fmt.Printf("  Code:         %s\n", r.Code)
	fmt.Printf("  Address:      %s, %s, %s\n", r.Address, r.Locality, r.Municipality)
	fmt.Printf("  Phone:        %s\n", r.Phone)
	fmt.Printf("  Status:       %s\n", recordStatus(r))
	if r.SavedAt != "" {
		fmt.Printf("  Saved at:     %s\n", r.SavedAt)
	}
	if r.ReceivedBy != "" {
		fmt.Printf("  Received by:  %s\n", r.ReceivedBy)
	}
	if r.Observations != "" {
		fmt.Printf("  Observations: %s\n", r.Observations)
	}

	fmt.Println("  Products:")
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "    ID\tPRODUCT\tBRAND\tUNIT\tREQUESTED\tDELIVERED")
	for _, p := range r.Products {
		fmt.Fprintf(w, "    %s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Brand, p.Unit, p.Requested, p.Delivered)
	}
	w.Flush()
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&draftDelivered, "delivered", nil, "delivered quantity as <product-id>=<quantity>, repeatable")
	cmd.Flags().StringVar(&draftObservations, "observations", "", "free-form delivery observations")
	cmd.Flags().StringVar(&draftReceivedBy, "received-by", "", "name of the person who received the delivery")
}

func init() {
	recordsListCmd.Flags().StringVar(&recordsSearch, "search", "", "filter by institution name")
	addDraftFlags(recordsSaveCmd)
	addDraftFlags(recordsFinalizeCmd)

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	recordsCmd.AddCommand(recordsSaveCmd)
	recordsCmd.AddCommand(recordsFillMaxCmd)
	recordsCmd.AddCommand(recordsFinalizeCmd)
	rootCmd.AddCommand(recordsCmd)
}
