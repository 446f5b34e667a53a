package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/observability"
	"github.com/spec-kit/ticket-tracker/internal/service"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util/errorutil"
)

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = apperrors.NewUnauthorized("not logged in\nHint: run 'tracker login' or 'tracker signup' first")

// errReported signals that the command already printed its failure.
var errReported = errors.New("command failed")

// App holds the services the commands call into.
type App struct {
	Auth    *service.AuthService
	Tickets *service.TicketService
	Stats   *service.StatsService
	Metrics *observability.Metrics
}

// NewRootCmd builds the tracker command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Support ticket tracker",
		Long: `tracker keeps accounts, the active session and support tickets in a
local store. Sign up or log in, then create and manage your tickets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(InitCmd(app))
	root.AddCommand(SignupCmd(app))
	root.AddCommand(LoginCmd(app))
	root.AddCommand(LogoutCmd(app))
	root.AddCommand(WhoamiCmd(app))
	root.AddCommand(DashboardCmd(app))
	root.AddCommand(TicketsCmd(app))
	root.AddCommand(ResetCmd(app))
	return root
}

// IsReported reports whether err was already printed to the user.
func IsReported(err error) bool {
	return errors.Is(err, errReported)
}

// requireSession is the gate for commands that act on the signed-in account.
func (a *App) requireSession(cmd *cobra.Command) (*domain.Session, error) {
	session := a.Auth.GetSession(cmd.Context())
	if session == nil {
		return nil, ErrNotLoggedIn
	}
	return session, nil
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), msg)
}

func printFailure(w io.Writer, msg string) error {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgRed).Sprint("✗"), msg)
	return errReported
}

func printFieldErrors(w io.Writer, errs map[string]string) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "  %s: %s\n", color.New(color.FgYellow).Sprint(field), errs[field])
	}
	return errReported
}

func printResult(w io.Writer, res service.Result, successMsg string) error {
	if !res.Success {
		printFailure(w, res.Message())
		if res.Error != nil && len(res.Error.Details) > 0 && res.Error.Code == apperrors.CodeValidationFailed {
			printFieldErrors(w, res.Error.Details)
		}
		return errReported
	}
	printSuccess(w, successMsg)
	return nil
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// formReader resolves a --form value: "-" reads the command's input,
// anything else is the JSON document itself.
func formReader(cmd *cobra.Command, value string) io.Reader {
	if value == "-" {
		return cmd.InOrStdin()
	}
	return strings.NewReader(value)
}

func statusColor(status domain.TicketStatus) *color.Color {
	switch status {
	case domain.TicketStatusInProgress:
		return color.New(color.FgYellow)
	case domain.TicketStatusClosed:
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.FgGreen)
	}
}
