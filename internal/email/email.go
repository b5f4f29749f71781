package email

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vprokhorov/airbook/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send delivers an order notification. TODO: plug in the SMTP relay once
// the notifications service exposes one; for now the event is only logged.
func (s *Sender) Send(ctx context.Context, event kafka.OrderEvent) error {
	logrus.WithFields(logrus.Fields{
		"order":   event.OrderID,
		"user":    event.UserID,
		"tickets": len(event.Tickets),
	}).Infof("send %s notification", event.Type)
	return nil
}
