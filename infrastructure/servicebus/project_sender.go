package servicebus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"
	"crowdfund-service/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

var ErrNoClient = errors.New("service bus client not configured")

// NewServiceBus prefers a connection string; otherwise it authenticates to
// <namespace>.servicebus.windows.net with the default Azure credential chain.
func NewServiceBus(connectionString, namespace string) (*azservicebus.Client, error) {
	if connectionString != "" {
		return azservicebus.NewClientFromConnectionString(connectionString, nil)
	}
	if namespace == "" {
		return nil, ErrNoClient
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return azservicebus.NewClient(fmt.Sprintf("%s.servicebus.windows.net", namespace), cred, nil)
}

type ProjectSender struct {
	AzservicebusClient *azservicebus.Client
	queue              string
}

func NewProjectSender(azServiceBusClient *azservicebus.Client, queue string) repository.IProjectEventPublisher {
	return &ProjectSender{AzservicebusClient: azServiceBusClient, queue: queue}
}

func (s *ProjectSender) PublishProjectEvent(ctx context.Context, event model.ProjectEvent) error {
	if s.AzservicebusClient == nil {
		return ErrNoClient
	}
	msg, err := newMessage(event)
	if err != nil {
		return err
	}

	sender, err := s.AzservicebusClient.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func() {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}()

	if err := sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func newMessage(event model.ProjectEvent) (*azservicebus.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	contentType := "application/json"
	subject := event.Type
	messageID := fmt.Sprintf("%s-%d", event.Type, event.ProjectID)
	return &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		MessageID:   &messageID,
		ApplicationProperties: map[string]interface{}{
			"projectId": event.ProjectID,
		},
	}, nil
}
