package mqttbridge

import (
	"encoding/json"

	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/prasertsri/fleet-radar/pkg/mqtt"
	"github.com/rs/zerolog"
)

// Bridge publishes each fleet snapshot to an MQTT topic for machine
// consumers. Like every Publisher it is best-effort: delivery failures are
// logged and dropped.
type Bridge struct {
	topic      string
	qos        int
	mqttClient mqtt.MQTTClient
	logger     zerolog.Logger
}

// New creates a bridge publishing on the given topic.
func New(topic string, qos int, mqttClient mqtt.MQTTClient, logger zerolog.Logger) *Bridge {
	return &Bridge{
		topic:      topic,
		qos:        qos,
		mqttClient: mqttClient,
		logger:     logger,
	}
}

// Publish serializes the snapshot and sends it to the configured topic.
func (b *Bridge) Publish(snapshot models.FleetSnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to serialize snapshot for MQTT")
		return
	}

	token := b.mqttClient.Publish(b.topic, byte(b.qos), false, payload)
	token.Wait()

	if err := token.Error(); err != nil {
		b.logger.Error().Err(err).Str("topic", b.topic).Msg("Failed to publish snapshot to MQTT")
		return
	}

	b.logger.Debug().Str("topic", b.topic).Int("count", snapshot.Count).Msg("Snapshot published to MQTT")
}
