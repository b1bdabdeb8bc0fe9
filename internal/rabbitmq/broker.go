// Package rabbitmq переносит задачи удаления постеров через RabbitMQ, когда
// брокер настроен. Тогда удаление переживает перезапуск процесса.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
)

// Options параметры подключения.
type Options struct {
	URL        string
	Retries    int
	RetryDelay time.Duration
	// Workers число одновременно обрабатываемых сообщений.
	Workers int
}

// Broker одно соединение и канал, через которые идут публикация и чтение
// очереди удаления.
type Broker struct {
	log     *slog.Logger
	conn    *amqp.Connection
	ch      *amqp.Channel
	workers int

	pubMu sync.Mutex
	wg    sync.WaitGroup
}

// Dial подключается к брокеру, повторяя попытки до opts.Retries раз,
// и объявляет топологию очередей.
func Dial(ctx context.Context, log *slog.Logger, opts Options) (*Broker, error) {
	const op = "rabbitmq.Dial"

	conn, err := dialRetry(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if err := ch.Qos(workers, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}
	if err := declareTopology(ch); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Broker{
		log:     log.With(slog.String("component", "rabbitmq")),
		conn:    conn,
		ch:      ch,
		workers: workers,
	}, nil
}

func dialRetry(ctx context.Context, opts Options) (*amqp.Connection, error) {
	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}

	var err error
	for attempt := 1; ; attempt++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(opts.URL)
		if err == nil {
			return conn, nil
		}
		if attempt >= retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", retries, err)
}

// Close закрывает соединение и ждёт обработчики, которые уже взяли сообщение.
func (b *Broker) Close() error {
	err := b.conn.Close()
	b.wg.Wait()
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		b.log.Warn("failed to close rabbitmq connection", sl.Err(err))
		return err
	}
	return nil
}
