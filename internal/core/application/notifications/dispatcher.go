// Package notifications delivers order summaries and status updates to the
// client and to staff over their channels. Delivery is best-effort: every
// recipient is attempted independently and failures are only logged.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/user"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// DefaultResolveTimeout bounds address resolution when no timeout is configured.
const DefaultResolveTimeout = 5 * time.Second

type UserReader interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

type StoreReader interface {
	Store(ctx context.Context, id int64) (catalog.Store, error)
}

type Dispatcher struct {
	gateways       map[services.Channel]ports.NotificationGateway
	directory      ports.RecipientDirectory
	users          UserReader
	stores         StoreReader
	resolver       ports.AddressResolver
	resolveTimeout time.Duration
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Dispatcher)

// WithResolver enables the resolved-address line. Without it only map links are shown.
func WithResolver(resolver ports.AddressResolver, timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.resolver = resolver
		if timeout > 0 {
			d.resolveTimeout = timeout
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher wires the per-channel gateways. A channel missing from
// gateways is treated as disabled: its messages are dropped with a warning.
func NewDispatcher(
	gateways map[services.Channel]ports.NotificationGateway,
	directory ports.RecipientDirectory,
	users UserReader,
	stores StoreReader,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		gateways:       gateways,
		directory:      directory,
		users:          users,
		stores:         stores,
		resolveTimeout: DefaultResolveTimeout,
		logger:         logger.With("component", "notifications"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OrderChanged fans out the notification for the order's current status.
func (d *Dispatcher) OrderChanged(ctx context.Context, o *order.Order) {
	audiences := services.FanOut(o.Status())
	if len(audiences) == 0 {
		return
	}

	client, err := d.users.Get(ctx, o.UserID())
	if err != nil {
		d.logger.WarnContext(ctx, "order client not loaded", "order_id", o.ID(), "error", err)
	}

	// Built on first broadcast so client-only statuses skip store and address lookups.
	var view *services.OrderView
	broadcastView := func() services.OrderView {
		if view == nil {
			v := d.view(ctx, o, client, true)
			view = &v
		}
		return *view
	}

	var wg sync.WaitGroup
	for _, audience := range audiences {
		if audience.ToClient {
			if client == nil {
				continue
			}
			msg := ports.Message{Text: services.ClientStatusText(o.Status(), o.ID())}
			d.deliver(ctx, &wg, audience.Channel, o.ID(), []int64{client.TelegramID()}, msg)
			continue
		}

		recipients, err := d.directory.ListTelegramIDsByRoles(ctx, audience.Roles...)
		if err != nil {
			d.logger.ErrorContext(ctx, "recipients not listed",
				"order_id", o.ID(),
				"channel", audience.Channel.String(),
				"error", err)
			continue
		}
		if len(recipients) == 0 {
			d.logger.InfoContext(ctx, "no recipients for broadcast",
				"order_id", o.ID(),
				"channel", audience.Channel.String())
			continue
		}

		msg := ports.Message{
			Text:    services.ComposeOrderSummary(broadcastView(), services.SummaryOptions{Header: audience.Header}),
			Actions: bindActions(o.ID(), audience.Actions...),
		}
		d.deliver(ctx, &wg, audience.Channel, o.ID(), recipients, msg)
	}
	wg.Wait()
}

// FollowUp hands the next-step button to the principal who just took
// ownership of the order. Orders in other statuses need no follow-up.
func (d *Dispatcher) FollowUp(ctx context.Context, o *order.Order, recipient int64) error {
	followUp, ok := services.ExecutorFollowUp(o.Status())
	if !ok {
		return nil
	}

	client, err := d.users.Get(ctx, o.UserID())
	if err != nil {
		d.logger.WarnContext(ctx, "order client not loaded", "order_id", o.ID(), "error", err)
	}

	msg := ports.Message{
		Text: services.ComposeOrderSummary(
			d.view(ctx, o, client, followUp.WithLocation),
			services.SummaryOptions{Header: followUp.Header, Full: true},
		),
		Actions: bindActions(o.ID(), followUp.Action),
	}
	if loc := o.Location(); followUp.WithLocation && loc != nil {
		msg.Location = loc
		msg.Links = ports.MapLinks(*loc)
	}

	err = d.send(ctx, followUp.Channel, recipient, msg)
	if err != nil {
		d.logger.WarnContext(ctx, "follow-up not delivered",
			"order_id", o.ID(),
			"channel", followUp.Channel.String(),
			"recipient", recipient,
			"error", err)
	}
	return err
}

// View loads the display names for an order. With resolve set, the
// coordinates are turned into an address within the resolve timeout.
func (d *Dispatcher) View(ctx context.Context, o *order.Order, resolve bool) services.OrderView {
	client, err := d.users.Get(ctx, o.UserID())
	if err != nil {
		d.logger.WarnContext(ctx, "order client not loaded", "order_id", o.ID(), "error", err)
	}
	return d.view(ctx, o, client, resolve)
}

// Broadcast sends a plain text to every holder of roles over channel and
// reports how many deliveries succeeded.
func (d *Dispatcher) Broadcast(ctx context.Context, channel services.Channel, text string, roles ...kernel.Role) (int, error) {
	recipients, err := d.directory.ListTelegramIDsByRoles(ctx, roles...)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, recipient := range recipients {
		if err := d.send(ctx, channel, recipient, ports.Message{Text: text}); err != nil {
			d.logger.WarnContext(ctx, "broadcast not delivered",
				"channel", channel.String(),
				"recipient", recipient,
				"error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (d *Dispatcher) view(ctx context.Context, o *order.Order, client *user.User, resolve bool) services.OrderView {
	v := services.OrderView{Order: o}
	if client != nil {
		v.ClientName = client.Name()
		v.ClientPhone = client.Phone()
	}

	if d.stores != nil {
		store, err := d.stores.Store(ctx, o.StoreID())
		if err != nil {
			d.logger.WarnContext(ctx, "order store not loaded", "order_id", o.ID(), "error", err)
		} else {
			v.StoreName = store.Name
		}
	}

	if resolve && o.Location() != nil {
		v.ResolvedAddress = d.resolve(ctx, o)
	}
	return v
}

// resolve never fails: a slow or broken resolver yields an empty address.
func (d *Dispatcher) resolve(ctx context.Context, o *order.Order) string {
	if d.resolver == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, d.resolveTimeout)
	defer cancel()

	address, err := d.resolver.Resolve(ctx, *o.Location())
	if err != nil {
		d.logger.WarnContext(ctx, "address not resolved",
			"order_id", o.ID(),
			"location", o.Location().String(),
			"error", err)
		return ""
	}
	return address
}

func (d *Dispatcher) deliver(
	ctx context.Context,
	wg *sync.WaitGroup,
	channel services.Channel,
	orderID int64,
	recipients []int64,
	msg ports.Message,
) {
	for _, recipient := range recipients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.send(ctx, channel, recipient, msg); err != nil {
				d.logger.WarnContext(ctx, "notification not delivered",
					"order_id", orderID,
					"channel", channel.String(),
					"recipient", recipient,
					"error", err)
			}
		}()
	}
}

func (d *Dispatcher) send(ctx context.Context, channel services.Channel, recipient int64, msg ports.Message) (err error) {
	gateway, ok := d.gateways[channel]
	if !ok || gateway == nil {
		err = fmt.Errorf("channel %s is disabled", channel)
		d.metrics.NotificationDelivered(channel.String(), err)
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
		d.metrics.NotificationDelivered(channel.String(), err)
	}()

	return gateway.Send(ctx, recipient, msg)
}

func bindActions(orderID int64, kinds ...order.ActionKind) []order.Action {
	if len(kinds) == 0 {
		return nil
	}
	actions := make([]order.Action, 0, len(kinds))
	for _, kind := range kinds {
		actions = append(actions, order.NewAction(kind, orderID))
	}
	return actions
}
