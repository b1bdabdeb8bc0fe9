package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange обменник сервиса.
const Exchange = "nightclub"

// Очередь удаления старых постеров.
const (
	PosterDeleteQueue      = "nightclub.poster.delete"
	PosterDeleteRoutingKey = "poster.delete"
)

// Сообщения, которые не удалось обработать дважды, уходят сюда и ждут
// ручного разбора.
const (
	DeadExchange     = "nightclub.dead"
	PosterDeadQueue  = "nightclub.poster.delete.dead"
	posterDeadRecord = "poster.delete.dead"
)

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	if err := ch.ExchangeDeclare(DeadExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", DeadExchange, err)
	}

	if _, err := ch.QueueDeclare(PosterDeadQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", PosterDeadQueue, err)
	}
	if err := ch.QueueBind(PosterDeadQueue, posterDeadRecord, DeadExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", PosterDeadQueue, err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DeadExchange,
		"x-dead-letter-routing-key": posterDeadRecord,
	}
	if _, err := ch.QueueDeclare(PosterDeleteQueue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", PosterDeleteQueue, err)
	}
	if err := ch.QueueBind(PosterDeleteQueue, PosterDeleteRoutingKey, Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", PosterDeleteQueue, err)
	}
	return nil
}
