// Package cleanup удаляет старые постеры в фоне, не задерживая HTTP-ответ.
//
// Ошибки удаления только логируются: событие уже сохранено, а лишний файл
// на хостинге не влияет на клиента.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
)

// Результаты удаления для метрик.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
	ResultDropped  = "dropped"
)

var (
	// ErrQueueFull буфер очереди заполнен, задача отброшена.
	ErrQueueFull = errors.New("cleanup queue is full")
	// ErrClosed очередь уже закрыта.
	ErrClosed = errors.New("cleanup queue is closed")
)

const deleteTimeout = 30 * time.Second

// Queue принимает URL изображений на удаление.
type Queue interface {
	Enqueue(ctx context.Context, url string) error
}

// Deleter удаляет изображение из хранилища.
type Deleter interface {
	Delete(ctx context.Context, url string) (bool, error)
}

// Recorder получает результаты удаления.
type Recorder interface {
	Cleanup(result string)
}

// Worker очередь в памяти процесса с одной горутиной-обработчиком.
type Worker struct {
	log   *slog.Logger
	store Deleter
	rec   Recorder

	mu     sync.Mutex
	closed bool
	jobs   chan string
	done   chan struct{}
}

// NewWorker создаёт и запускает обработчик с буфером на buffer задач.
func NewWorker(log *slog.Logger, store Deleter, rec Recorder, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 1
	}
	w := &Worker{
		log:   log,
		store: store,
		rec:   rec,
		jobs:  make(chan string, buffer),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue ставит URL в очередь, не блокируясь.
func (w *Worker) Enqueue(_ context.Context, url string) error {
	const op = "cleanup.Enqueue"
	if url == "" {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	select {
	case w.jobs <- url:
		return nil
	default:
		w.rec.Cleanup(ResultDropped)
		return fmt.Errorf("%s: %w", op, ErrQueueFull)
	}
}

// Handle удаляет изображение синхронно. Используется и воркером, и
// потребителем RabbitMQ.
func (w *Worker) Handle(ctx context.Context, url string) error {
	const op = "cleanup.Handle"
	log := w.log.With(slog.String("op", op), slog.String("url", url))

	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	deleted, err := w.store.Delete(ctx, url)
	if err != nil {
		w.rec.Cleanup(ResultError)
		log.Error("failed to delete old poster", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if !deleted {
		w.rec.Cleanup(ResultNotFound)
		log.Warn("old poster not found in storage")
		return nil
	}
	w.rec.Cleanup(ResultOK)
	log.Info("old poster deleted")
	return nil
}

// Close перестаёт принимать задачи и ждёт обработки уже поставленных.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()

	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	for url := range w.jobs {
		_ = w.Handle(context.Background(), url)
	}
}
