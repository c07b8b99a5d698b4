package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the audit trail: publish a sample entity event through the audit handler`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a test entity event",
	Long:      `Publish an entity event to the event bus and print the audit record it produces`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.KnownEventTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventEntityID int64
	eventActorID  int64
	eventFields   []string
)

func publishTestEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	entity, ok := events.EntityOf(eventType)
	if !ok {
		return fmt.Errorf("unknown event type %q", eventType)
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	bus.Subscribe(events.AllEvents, events.AuditHandler(lg))

	event := events.NewEntityEvent(eventType, entity, eventEntityID, eventActorID, eventFields)
	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())

	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventEntityID, "entity-id", 1, "id of the changed row")
	publishEventCmd.Flags().Int64Var(&eventActorID, "actor-id", 1, "id of the user who made the change")
	publishEventCmd.Flags().StringSliceVar(&eventFields, "fields", nil, "changed field names")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
