package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish leave lifecycle events through the audit subscribers for debugging.`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [submitted|reviewed|cancelled|drift]",
	Short:     "Publish a sample leave event",
	Long:      `Publish a sample leave lifecycle event to the in-process bus with the audit logger attached`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"submitted", "reviewed", "cancelled", "drift"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(args[0])
	},
}

var (
	eventRequestID int64
	eventUserID    int64
	eventTypeID    int64
	eventDays      int
	eventStatus    string
)

func sampleEvent(kind string) (events.Event, error) {
	switch kind {
	case "submitted":
		return events.NewLeaveSubmittedEvent(eventRequestID, eventUserID, eventTypeID, eventDays), nil
	case "reviewed":
		return events.NewLeaveReviewedEvent(eventRequestID, eventUserID, eventTypeID, eventStatus, eventDays, "published from cli"), nil
	case "cancelled":
		return events.NewLeaveCancelledEvent(eventRequestID, eventUserID), nil
	case "drift":
		return events.NewBalanceDriftEvent(eventUserID, eventTypeID, eventDays, 0), nil
	}
	return nil, fmt.Errorf("unknown event kind %q", kind)
}

func publishSampleEvent(kind string) error {
	lg := logger.LoggerWrapper()

	event, err := sampleEvent(kind)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	events.AuditLogger(bus, lg)

	lg.Info("publishing event", "event_type", event.EventType(), "event_id", event.EventID())
	if err := bus.PublishSync(context.Background(), event); err != nil {
		lg.Error("failed to publish event", "error", err)
		return err
	}

	lg.Info("event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventRequestID, "request-id", 1, "Leave request id")
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 1, "User id")
	publishEventCmd.Flags().Int64Var(&eventTypeID, "leave-type-id", 1, "Leave type id")
	publishEventCmd.Flags().IntVar(&eventDays, "days", 1, "Total days")
	publishEventCmd.Flags().StringVar(&eventStatus, "status", "approved", "Review status for reviewed events")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
