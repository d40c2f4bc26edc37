package mqttclient

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/plazacoche/charger-rota/internal/config"
)

// TestIntegration publishes a plan to a real Mosquitto broker and reads it back as a retained message
func TestIntegration(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:2.0",
			ExposedPorts: []string{"1883/tcp"},
			Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "1883")
	require.NoError(t, err)
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	var client *Client
	for i := 0; i < 5; i++ {
		client, err = NewClient(&config.MQTTConfig{Broker: broker, ClientID: "rota-test", QoS: 1})
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err)
	defer client.Close()

	topic := "charger/plan/2025-43/u1"
	require.NoError(t, client.Publish(topic, []byte(`{"week":"2025-43"}`)))

	// A subscriber connecting afterwards still receives the retained plan
	received := make(chan string, 1)
	sub := mqtt.NewClient(mqtt.NewClientOptions().AddBroker(broker).SetClientID("controller-test"))
	token := sub.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())
	defer sub.Disconnect(250)

	token = sub.Subscribe(topic, 1, func(_ mqtt.Client, m mqtt.Message) {
		received <- string(m.Payload())
	})
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())

	select {
	case got := <-received:
		require.JSONEq(t, `{"week":"2025-43"}`, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for retained message")
	}
}
