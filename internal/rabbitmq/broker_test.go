package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
)

// brokerURL возвращает адрес брокера из TEST_RABBITMQ_URL или поднимает
// контейнер rabbitmq.
func brokerURL(ctx context.Context, t *testing.T) string {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_RABBITMQ_TESTS") == "true" {
		t.Skip("skipping RabbitMQ tests")
	}
	if url := os.Getenv("TEST_RABBITMQ_URL"); url != "" {
		return url
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate rabbitmq container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

func TestBroker_EnqueueConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	b, err := Dial(ctx, sl.Discard(), Options{URL: brokerURL(ctx, t), Retries: 5, RetryDelay: time.Second, Workers: 2})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.ch.QueuePurge(PosterDeleteQueue, false)
	require.NoError(t, err)
	_, err = b.ch.QueuePurge(PosterDeadQueue, false)
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		received []string
		failures int
	)
	require.NoError(t, b.Consume(ctx, func(_ context.Context, url string) error {
		mu.Lock()
		defer mu.Unlock()
		if url == "https://img/broken.jpg" {
			failures++
			return errors.New("delete failed")
		}
		received = append(received, url)
		return nil
	}))

	require.NoError(t, b.Enqueue(ctx, "https://img/1.jpg"))
	require.NoError(t, b.Enqueue(ctx, "https://img/2.jpg"))
	require.NoError(t, b.Enqueue(ctx, ""))
	require.NoError(t, b.Enqueue(ctx, "https://img/broken.jpg"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2 && failures == 2
	}, 15*time.Second, 100*time.Millisecond)

	mu.Lock()
	assert.ElementsMatch(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, received)
	mu.Unlock()

	assert.Eventually(t, func() bool {
		q, err := b.ch.QueueInspect(PosterDeadQueue)
		return err == nil && q.Messages == 1
	}, 10*time.Second, 100*time.Millisecond)
}
