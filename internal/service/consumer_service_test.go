package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"markethub-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerSendsConfirmationEmail(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	mail := &fakeMailer{}
	svc := NewConsumerService(pubSub, OrderConfirmationTopic, mail)
	require.NoError(t, svc.Consume(context.Background()))

	payload, err := json.Marshal(dto.OrderConfirmationMessage{
		OrderId:        uuid.New(),
		Reference:      "ref-123",
		RecipientEmail: "buyer@example.com",
		GrossAmount:    150000,
	})
	require.NoError(t, err)

	require.NoError(t, pubSub.Publish(OrderConfirmationTopic, message.NewMessage(watermill.NewUUID(), payload)))

	assert.Eventually(t, func() bool {
		return mail.count("order_confirmation") == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	mail := &fakeMailer{}
	svc := NewConsumerService(pubSub, OrderConfirmationTopic, mail)
	require.NoError(t, svc.Consume(context.Background()))

	require.NoError(t, pubSub.Publish(OrderConfirmationTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	// A good message after the bad one still gets through, proving the
	// malformed one was acked rather than wedging the queue.
	payload, _ := json.Marshal(dto.OrderConfirmationMessage{
		OrderId:        uuid.New(),
		Reference:      "ref-456",
		RecipientEmail: "buyer@example.com",
	})
	require.NoError(t, pubSub.Publish(OrderConfirmationTopic, message.NewMessage(watermill.NewUUID(), payload)))

	assert.Eventually(t, func() bool {
		return mail.count("order_confirmation") == 1
	}, 2*time.Second, 10*time.Millisecond)
}
