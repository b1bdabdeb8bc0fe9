package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
)

// PosterJob задача на удаление изображения с хостинга.
type PosterJob struct {
	URL        string    `json:"url"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// HandleFunc удаляет изображение по URL.
type HandleFunc func(ctx context.Context, url string) error

// Enqueue публикует URL в очередь удаления. Пустой URL игнорируется.
func (b *Broker) Enqueue(_ context.Context, url string) error {
	const op = "rabbitmq.Enqueue"
	if url == "" {
		return nil
	}

	body, err := json.Marshal(PosterJob{URL: url, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// amqp.Channel нельзя использовать для публикации из нескольких горутин
	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	err = b.ch.Publish(Exchange, PosterDeleteRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Consume запускает чтение очереди удаления в b.workers горутинах.
// Чтение прекращается при отмене ctx или закрытии соединения.
func (b *Broker) Consume(ctx context.Context, handle HandleFunc) error {
	const op = "rabbitmq.Consume"

	deliveries, err := b.ch.Consume(PosterDeleteQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := b.log.With(slog.String("op", op), slog.String("queue", PosterDeleteQueue))
	for range b.workers {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					dispatch(ctx, log, d, handle)
				}
			}
		}()
	}
	return nil
}

// dispatch обрабатывает одно сообщение. Неразборчивое сообщение сразу
// уходит в dead-letter, ошибка обработчика возвращает сообщение в очередь
// один раз, повторная отправляет его в dead-letter.
func dispatch(ctx context.Context, log *slog.Logger, d amqp.Delivery, handle HandleFunc) {
	var job PosterJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Error("malformed poster job", sl.Err(err))
		if err := d.Reject(false); err != nil {
			log.Error("failed to reject message", sl.Err(err))
		}
		return
	}
	if job.URL == "" {
		if err := d.Ack(false); err != nil {
			log.Error("failed to ack message", sl.Err(err))
		}
		return
	}

	if err := handle(ctx, job.URL); err != nil {
		log.Warn("poster job failed", slog.String("url", job.URL), slog.Bool("redelivered", d.Redelivered), sl.Err(err))
		if err := d.Nack(false, !d.Redelivered); err != nil {
			log.Error("failed to nack message", sl.Err(err))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Error("failed to ack message", sl.Err(err))
	}
}
