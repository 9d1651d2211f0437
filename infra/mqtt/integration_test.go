package mqtt

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mosquittoReadyTimeout = 5 * time.Second
	pollInterval          = 50 * time.Millisecond
)

// startMosquitto launches a disposable Mosquitto broker inside a Docker
// container and returns its broker URL.
func startMosquitto(ctx context.Context, t *testing.T) string {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
`
	path := filepath.Join(t.TempDir(), "mosquitto.conf")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0644))

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })

	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "1883")
	require.NoError(t, err)
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	waitCtx, cancel := context.WithTimeout(ctx, mosquittoReadyTimeout)
	defer cancel()
	require.NoError(t, waitForMQTTReady(waitCtx, broker))
	return broker
}

func waitForMQTTReady(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	for {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func TestResultPublisherMosquitto(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") == "" {
		t.Skip("set DOCKER_AVAILABLE=1 to run broker tests")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()
	broker := startMosquitto(ctx, t)

	received := make(chan []byte, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("sub"))
	tok := sub.Connect()
	tok.Wait()
	require.NoError(t, tok.Error())
	defer sub.Disconnect(100)
	tok = sub.Subscribe(DefaultTopic, 1, func(_ paho.Client, m paho.Message) {
		received <- m.Payload()
	})
	tok.Wait()
	require.NoError(t, tok.Error())

	pub, err := NewResultPublisher(Config{Broker: broker, QoS: 1})
	require.NoError(t, err)
	defer pub.Close()

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, pub.Publish(pubCtx, []byte(`{"run_id":"r1"}`)))

	select {
	case p := <-received:
		require.JSONEq(t, `{"run_id":"r1"}`, string(p))
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}
