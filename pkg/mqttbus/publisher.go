package mqttbus

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher is the publish side of the bus.
type IPublisher interface {
	PublishMessage(message interface{}) error
	Close()
}

// Publisher publishes string payloads to a fixed topic.
type Publisher struct {
	client   mqtt.Client
	topic    string
	retained bool
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// NewRetainedPublisher publishes with the retained flag set, so late
// subscribers receive the last value immediately.
func NewRetainedPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic, retained: true}
}

// PublishMessage publishes a message to the configured topic.
func (p *Publisher) PublishMessage(message interface{}) error {
	messageStr, ok := message.(string)
	if !ok {
		return fmt.Errorf("invalid message format, expected string")
	}

	token := p.client.Publish(p.topic, qosFor(p.topic), p.retained, messageStr)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish message: %v", token.Error())
	}

	log.Printf("mqttbus: published %d bytes to topic %q", len(messageStr), p.topic)
	return nil
}

// Close gracefully closes the MQTT connection for the publisher.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("mqttbus: client disconnected")
	}
}
