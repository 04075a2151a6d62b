package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"palava-proof/internal/domain/models"
	"palava-proof/internal/domain/services"
	"palava-proof/internal/ui/terminal"
)

func (a *app) checkCmd() *cobra.Command {
	var (
		asJSON bool
		share  bool
	)

	cmd := &cobra.Command{
		Use:   "check [message...]",
		Short: "Check a message for scam warning signs",
		Long: `Check a message for scam warning signs. The message is taken from the
arguments, or from stdin when no arguments are given.

Phone numbers and links in the message are also looked up in the offline
report database.`,
		Example: `  palava check "Congratulations! You won 5000 LRD"
  pbpaste | palava check --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read message: %w", err)
				}
				message = string(data)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			reports := services.NewReportService(store, nil, nil, a.log)
			result, err := services.NewCheckService(reports, nil, a.log).Check(cmd.Context(), message)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintln(out, terminal.Render(result.Display))
			for _, m := range result.CommunityReports {
				fmt.Fprintf(out, "\n👥 %s %s was reported %d time(s) by the community\n", m.Kind, m.Value, m.Count)
			}

			if share {
				outcome, err := services.NewShareService(nil, terminal.SystemClipboard{}, a.log).Share(cmd.Context(), message)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "\n"+outcome.Message)
				if outcome.Method != models.ShareMethodClipboard {
					fmt.Fprintln(out, "\n"+outcome.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&share, "share", false, "copy a warning for friends to the clipboard")
	return cmd
}
