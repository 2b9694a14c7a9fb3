package service

import (
	"context"
	"encoding/json"
	"log"

	"markethub-be/internal/dto"
	"markethub-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the order-confirmation queue and turns each
// message into its recipient's email. Emails run here, off the webhook path,
// so a slow SMTP server never delays a reconcile response.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, emailService mailer.IEmailService) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.OrderConfirmationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal confirmation message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Sending order confirmation for %s to %s", payload.Reference, payload.RecipientEmail)

	if err := cs.emailService.SendOrderConfirmation(payload.RecipientEmail, payload.Reference, payload.GrossAmount); err != nil {
		log.Printf("[ERROR] Confirmation email for %s failed: %v", payload.Reference, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
