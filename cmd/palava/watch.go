package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"palava-proof/internal/streaming"
)

func (a *app) watchCmd() *cobra.Command {
	var sub streaming.Subscription

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live scam reports and detections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.NATS.Enabled {
				return errors.New("no event stream configured (set nats.enabled)")
			}
			ctx := cmd.Context()

			nc, err := streaming.NewNATSPublisher(ctx, a.cfg.NATS, a.log)
			if err != nil {
				return err
			}
			defer nc.Close()

			events, err := nc.Subscribe(ctx, &sub)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for ev := range events {
				fmt.Fprintln(out, formatEvent(ev))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sub.MinConfidence, "min-confidence", 0, "hide detections below this score")
	cmd.Flags().BoolVar(&sub.IncludeDuplicates, "duplicates", false, "include repeat reports of known scams")
	return cmd
}

func formatEvent(ev *streaming.Event) string {
	ts := ev.Timestamp.Local().Format("15:04:05")
	switch ev.Type {
	case streaming.EventTypePalavaDetected:
		return fmt.Sprintf("%s 🚨 %d%% %q", ts, ev.Confidence, ev.Preview)
	case streaming.EventTypeReportSubmitted:
		return fmt.Sprintf("%s 📣 report #%d (%s) seen %d time(s)", ts, ev.ReportID, ev.ReportType, ev.TimesReported)
	}
	return fmt.Sprintf("%s %s", ts, ev.Type)
}
