// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedGenerationMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing prompt embedding for GenerationId: %s", payload.GenerationId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.GenerationRepository().FindOne(ctx, specification.ByID{ID: payload.GenerationId})
	if err != nil {
		log.Printf("[ERROR] Failed to get generation %s: %v", payload.GenerationId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if record == nil {
		log.Printf("[ERROR] Generation not found: %s", payload.GenerationId)
		msg.Ack() // Row deleted before we got here? Ack.
		return
	}

	// Prompts are short, so one document per row; no chunking. Style and
	// aspect ratio are folded in so searches like "anime portraits" match.
	document := fmt.Sprintf("Prompt: %s\nStyle: %s\nAspect Ratio: %s",
		record.Prompt,
		record.Style,
		record.AspectRatio,
	)

	res, err := cs.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for generation %s: %v", payload.GenerationId, err)
		msg.Nack()
		return
	}

	if err := uow.GenerationRepository().UpdateEmbedding(ctx, record.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for generation %s: %v", payload.GenerationId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Embedding stored for GenerationId: %s", payload.GenerationId)
	msg.Ack()
}
