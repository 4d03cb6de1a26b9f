package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
)

// StartReservationConsumer connects to RabbitMQ, declares the
// reservation.events queue (durable), and starts consuming messages. Each
// event is turned into a notification row for its receiver. The function
// runs a reconnect loop and keeps running for the lifetime of the server,
// logging any processing errors and rejecting the offending message so
// the server continues operating.
func StartReservationConsumer(notifications *repository.NotificationRepo) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, notifications); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, notifications *repository.NotificationRepo) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("reservation-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(reservationQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(reservationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, notifications); err != nil {
			log.Printf("reservation-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, notifications *repository.NotificationRepo) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ReceiverID == 0 {
		return fmt.Errorf("event %s for reservation %d has no receiver", ev.Action, ev.ReservationID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := model.Notification{
		SenderID:   ev.SenderID,
		ReceiverID: ev.ReceiverID,
		Message:    eventMessage(ev),
	}
	if err := notifications.Create(ctx, &n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

func eventMessage(ev ReservationEvent) string {
	switch ev.Action {
	case ActionCreated:
		return fmt.Sprintf("New reservation request for %q from %s to %s.",
			ev.PropertyTitle, ev.StartDate, ev.EndDate)
	case ActionStatusChanged:
		return fmt.Sprintf("Your reservation for %q (%s to %s) is now %s.",
			ev.PropertyTitle, ev.StartDate, ev.EndDate, ev.Status)
	default:
		return fmt.Sprintf("Reservation %d update: %s.", ev.ReservationID, ev.Status)
	}
}
