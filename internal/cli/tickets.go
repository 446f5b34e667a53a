package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-tracker/internal/api/dto"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/validation"
)

// TicketsCmd groups the ticket commands. Every subcommand needs a session.
func TicketsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket"},
		Short:   "Manage your support tickets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.requireSession(cmd)
			return err
		},
	}
	cmd.AddCommand(ticketListCmd(app))
	cmd.AddCommand(ticketShowCmd(app))
	cmd.AddCommand(ticketCreateCmd(app))
	cmd.AddCommand(ticketUpdateCmd(app))
	cmd.AddCommand(ticketDeleteCmd(app))
	return cmd
}

func ticketListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFilter, _ := cmd.Flags().GetString("status")
			asJSON, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			tickets := app.Tickets.GetTickets(cmd.Context())
			if statusFilter != "" {
				filtered := tickets[:0]
				for _, t := range tickets {
					if string(t.Status) == statusFilter {
						filtered = append(filtered, t)
					}
				}
				tickets = filtered
			}

			if asJSON {
				views := make([]dto.TicketSummary, 0, len(tickets))
				for _, t := range tickets {
					views = append(views, dto.NewTicketSummary(t))
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			if len(tickets) == 0 {
				fmt.Fprintln(out, "No tickets yet. Create one with 'tracker tickets create'.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tCREATED")
			for _, t := range tickets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Title, statusColor(t.Status).Sprint(t.Status.Label()),
					t.Priority, t.CreatedAt.Local().Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("status", "", "Only show tickets with this status (open, in_progress, closed)")
	cmd.Flags().Bool("json", false, "Print tickets as JSON")
	return cmd
}

func ticketShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [ticket-id]",
		Short: "Show a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			res := app.Tickets.GetTicket(cmd.Context(), args[0])
			if !res.Success {
				return printFailure(out, res.Message())
			}
			printTicket(cmd, *res.Ticket)
			return nil
		},
	}
}

func ticketCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := ticketForm(cmd, dto.NewTicketForm())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res := validation.ValidateTicket(form.Input()); !res.IsValid {
				return printFieldErrors(out, res.Errors)
			}

			res, err := app.Tickets.CreateTicket(cmd.Context(), form.CreateInput())
			if err != nil {
				return fmt.Errorf("failed to create ticket: %w", err)
			}
			if err := printResult(out, res.Result, "Ticket created successfully!"); err != nil {
				return err
			}
			fmt.Fprintf(out, "  ID: %s\n", res.Ticket.ID)
			return nil
		},
	}
	addTicketFormFlags(cmd)
	return cmd
}

func ticketUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [ticket-id]",
		Short: "Edit a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			current := app.Tickets.GetTicket(cmd.Context(), args[0])
			if !current.Success {
				return printFailure(out, current.Message())
			}

			form, err := ticketForm(cmd, dto.TicketFormFrom(*current.Ticket))
			if err != nil {
				return err
			}
			if res := validation.ValidateTicket(form.Input()); !res.IsValid {
				return printFieldErrors(out, res.Errors)
			}

			res, err := app.Tickets.UpdateTicket(cmd.Context(), args[0], form.Patch())
			if err != nil {
				return fmt.Errorf("failed to update ticket: %w", err)
			}
			return printResult(out, res.Result, "Ticket updated successfully!")
		},
	}
	addTicketFormFlags(cmd)
	return cmd
}

func ticketDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [ticket-id]",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, fmt.Sprintf("Delete ticket %s?", args[0])) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			res, err := app.Tickets.DeleteTicket(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete ticket: %w", err)
			}
			return printResult(cmd.OutOrStdout(), res, "Ticket deleted successfully!")
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	return cmd
}

func addTicketFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Ticket title")
	cmd.Flags().String("description", "", "Ticket description")
	cmd.Flags().String("status", "", "Status: open, in_progress or closed")
	cmd.Flags().String("priority", "", "Priority: low, medium or high")
	cmd.Flags().String("form", "", "JSON form document, or - to read it from stdin")
}

// ticketForm layers --form, then any explicitly set flags, over base.
func ticketForm(cmd *cobra.Command, base dto.TicketForm) (dto.TicketForm, error) {
	form := base
	if raw, _ := cmd.Flags().GetString("form"); raw != "" {
		decoded, err := dto.DecodeTicketFormOver(formReader(cmd, raw), base)
		if err != nil {
			return dto.TicketForm{}, err
		}
		form = decoded
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		form.Title, _ = flags.GetString("title")
	}
	if flags.Changed("description") {
		form.Description, _ = flags.GetString("description")
	}
	if flags.Changed("status") {
		status, _ := flags.GetString("status")
		form.Status = domain.TicketStatus(status)
	}
	if flags.Changed("priority") {
		priority, _ := flags.GetString("priority")
		form.Priority = domain.TicketPriority(priority)
	}
	return form, nil
}

func printTicket(cmd *cobra.Command, t domain.Ticket) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", t.Title)
	fmt.Fprintf(out, "  ID:       %s\n", t.ID)
	fmt.Fprintf(out, "  Status:   %s\n", statusColor(t.Status).Sprint(t.Status.Label()))
	fmt.Fprintf(out, "  Priority: %s\n", t.Priority)
	fmt.Fprintf(out, "  Created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	if !t.UpdatedAt.Equal(t.CreatedAt) {
		fmt.Fprintf(out, "  Updated:  %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if t.Description != "" {
		fmt.Fprintf(out, "\n%s\n", t.Description)
	}
}
