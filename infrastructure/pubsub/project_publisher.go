package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/logger"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

var ErrNoClient = errors.New("pubsub client not configured")

// NewPubSub builds a client for projectID. credentialsFile may be empty to
// use application default credentials.
func NewPubSub(ctx context.Context, projectID, credentialsFile string) (*pubsub.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	return client, nil
}

type ProjectPublisher struct {
	PubSubClient *pubsub.Client
	topicName    string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewProjectPublisher(pubSubClient *pubsub.Client, topicName string) *ProjectPublisher {
	return &ProjectPublisher{PubSubClient: pubSubClient, topicName: topicName}
}

func (p *ProjectPublisher) PublishProjectEvent(ctx context.Context, event model.ProjectEvent) error {
	if p.PubSubClient == nil {
		return ErrNoClient
	}
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"type":      event.Type,
			"projectId": strconv.FormatInt(event.ProjectID, 10),
		},
	}

	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	logger.GetLogger().WithField("server ID", serverID).WithField("projectId", event.ProjectID).Info("Message published")
	return nil
}

// ensureTopic looks the topic up once and creates it when missing.
func (p *ProjectPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	topic := p.PubSubClient.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if topic, err = p.PubSubClient.CreateTopic(ctx, p.topicName); err != nil {
			return nil, err
		}
	}
	p.topic = topic
	return topic, nil
}

// Stop flushes pending messages.
func (p *ProjectPublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
	}
}
