package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/spf13/cobra"
)

var leadsFlags struct {
	status string
	limit  int
	json   bool
	note   string
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List captured leads",
	Long: `List the leads captured by the kiosk, newest first.

Works while the kiosk is running (through its NATS port) and when it is not
(by opening the lead store directly).`,
	Args: cobra.NoArgs,
	RunE: runLeadsList,
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLeads(cmd, func(ctx context.Context, store *lead.Store) error {
			l, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if leadsFlags.json {
				return printJSON(cmd.OutOrStdout(), l)
			}
			printLead(cmd.OutOrStdout(), l)
			return nil
		})
	},
}

var leadsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move a lead through the pipeline",
	Long: fmt.Sprintf(`Record a status change for a lead.

Valid statuses: %s`, strings.Join(lead.Statuses, ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLeads(cmd, func(ctx context.Context, store *lead.Store) error {
			l, err := store.SetStatus(ctx, args[0], args[1], leadsFlags.note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lead %s is now %s\n", l.ID, l.Status)
			return nil
		})
	},
}

func init() {
	leadsCmd.PersistentFlags().BoolVar(&leadsFlags.json, "json", false, "Print JSON instead of a table")
	leadsCmd.Flags().StringVarP(&leadsFlags.status, "status", "s", "", "Only show leads with this status")
	leadsCmd.Flags().IntVarP(&leadsFlags.limit, "limit", "l", 0, "Show at most this many leads, 0=all")
	leadsStatusCmd.Flags().StringVar(&leadsFlags.note, "note", "", "Note to record with the status change")

	leadsCmd.AddCommand(leadsShowCmd)
	leadsCmd.AddCommand(leadsStatusCmd)
}

// withLeads opens the lead store for the duration of fn.
func withLeads(cmd *cobra.Command, fn func(ctx context.Context, store *lead.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	backend, err := openLeads(ctx, cfg.DataDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	return fn(ctx, backend.Store)
}

func runLeadsList(cmd *cobra.Command, args []string) error {
	if leadsFlags.status != "" && !lead.ValidStatus(leadsFlags.status) {
		return fmt.Errorf("unknown status %q (want one of %s)", leadsFlags.status, strings.Join(lead.Statuses, ", "))
	}
	if leadsFlags.limit < 0 {
		return fmt.Errorf("limit must be >= 0 (0 means all)")
	}

	return withLeads(cmd, func(ctx context.Context, store *lead.Store) error {
		leads, err := store.List(ctx)
		if err != nil {
			return err
		}
		leads = filterLeads(leads, leadsFlags.status, leadsFlags.limit)
		if leadsFlags.json {
			return printJSON(cmd.OutOrStdout(), leads)
		}
		printLeads(cmd.OutOrStdout(), leads)
		return nil
	})
}

// filterLeads keeps leads with status (all when blank), at most limit of
// them (all when 0).
func filterLeads(leads []*lead.Lead, status string, limit int) []*lead.Lead {
	out := make([]*lead.Lead, 0, len(leads))
	for _, l := range leads {
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func printLeads(w io.Writer, leads []*lead.Lead) {
	if len(leads) == 0 {
		fmt.Fprintln(w, "No leads")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCreated\tStatus\tName\tPhone\tAddress")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID,
			l.CreatedAt.Local().Format("2006-01-02 15:04"),
			l.Status,
			l.Contact.Name(),
			l.Contact.Phone,
			l.Address.String(),
		)
	}
	_ = tw.Flush()
}

func printLead(w io.Writer, l *lead.Lead) {
	fmt.Fprintf(w, "Lead %s (%s)\n", l.ID, l.Status)
	fmt.Fprintf(w, "  Submitted: %s\n", l.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(w, "  Address:   %s\n", l.Address.String())
	fmt.Fprintf(w, "  Property:  %s bed, %s bath, %s\n", l.Property.Bedrooms, l.Property.Bathrooms, l.Property.Condition)
	fmt.Fprintf(w, "  Timeline:  %s\n", l.Timeline)
	if l.Reason != "" {
		fmt.Fprintf(w, "  Reason:    %s\n", l.Reason)
	}
	fmt.Fprintf(w, "  Contact:   %s, %s, %s\n", l.Contact.Name(), l.Contact.Phone, l.Contact.Email)
	for _, n := range l.Notes {
		line := fmt.Sprintf("  %s → %s", n.At.Local().Format("2006-01-02 15:04"), n.Status)
		if n.Text != "" {
			line += ": " + n.Text
		}
		fmt.Fprintln(w, line)
	}
}
