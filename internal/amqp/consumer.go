package amqp

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	applog "commissions/internal/log"
)

// ErrRejectMessage marks a handler error as permanent: the delivery is
// dropped instead of requeued.
var ErrRejectMessage = errors.New("reject message")

// ReportHandler processes one decoded report computed message.
type ReportHandler func(ctx context.Context, msg *ReportComputedMessage) error

// ConsumeReportComputed consumes report computed messages until ctx is done
// or the delivery channel closes. Deliveries are acknowledged manually.
func (c *Client) ConsumeReportComputed(ctx context.Context, handler ReportHandler) error {
	c.connMu.Lock()
	if err := c.connectLocked(ctx); err != nil {
		c.connMu.Unlock()
		return err
	}
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	c.connMu.Unlock()
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.log().InfoContext(ctx, "Started consuming report computed messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			c.log().InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.handleDelivery(ctx, d, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, d amqp091.Delivery, handler ReportHandler) {
	msg, err := ReportComputedMessageFromJSON(d.Body)
	if err != nil {
		c.log().ErrorContext(ctx, "Failed to unmarshal message", applog.FieldError, err)
		d.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		requeue := !errors.Is(err, ErrRejectMessage)
		c.log().ErrorContext(ctx, "Failed to handle message",
			applog.FieldError, err,
			"requeue", requeue)
		d.Nack(false, requeue)
		return
	}

	d.Ack(false)
	c.log().DebugContext(ctx, "Processed report computed message",
		applog.FieldSalespeople, msg.Salespeople,
		applog.FieldSaleCount, msg.SaleCount)
}
