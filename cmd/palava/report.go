package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"palava-proof/internal/domain/models"
	"palava-proof/internal/domain/services"
	"palava-proof/internal/ui/terminal"
)

func (a *app) reportCmd() *cobra.Command {
	var report models.Report

	cmd := &cobra.Command{
		Use:   "report <content...>",
		Short: "Report a scam message",
		Long: `Record a scam report in the offline database. Reports of a scam that
was already recorded are counted against the existing report. Run
'palava sync' to share them with the community database.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report.Content = strings.Join(args, " ")
			if report.PhoneNumber == "" {
				if phones := services.ExtractPhoneNumbers(report.Content); len(phones) > 0 {
					report.PhoneNumber = phones[0]
				}
			}
			if report.URL == "" {
				if urls := services.ExtractURLs(report.Content); len(urls) > 0 {
					report.URL = urls[0]
				}
			}

			receipt, err := services.NewReportService(store, nil, nil, a.log).Submit(cmd.Context(), report)
			if err != nil {
				return err
			}
			if !receipt.Stored {
				return fmt.Errorf("report could not be saved")
			}

			fmt.Fprintln(cmd.OutOrStdout(), receipt.Message)
			fmt.Fprintln(cmd.OutOrStdout(), terminal.LabelStyle.Render(fmt.Sprintf("report #%d", receipt.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&report.Type, "type", models.DefaultReportType, "channel the scam arrived on (sms, whatsapp, ...)")
	cmd.Flags().StringVar(&report.PhoneNumber, "phone", "", "sender phone number")
	cmd.Flags().StringVar(&report.URL, "url", "", "link in the message")
	cmd.Flags().StringVar(&report.ReportedBy, "by", "", "reporter name")
	return cmd
}
