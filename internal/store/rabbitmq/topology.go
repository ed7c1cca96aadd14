package rabbitmq

import amqp "github.com/rabbitmq/amqp091-go"

type queueNames struct {
	main string
	dlq  string
}

func namesFor(queue string) queueNames {
	return queueNames{main: queue, dlq: queue + ".dlq"}
}

type queueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// declareTopology declares the job queue and its dead-letter queue. Publisher
// and consumer must agree on the arguments, so both use it. Failed jobs are
// retried through the admin API, not by the broker.
func declareTopology(ch queueDeclarer, queue string) error {
	n := namesFor(queue)

	// DLQ
	if _, err := ch.QueueDeclare(
		n.dlq,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false,
		nil,
	); err != nil {
		return err
	}

	// Main queue: dead-letter to DLQ on reject/nack(requeue=false)
	_, err := ch.QueueDeclare(
		n.main,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": n.dlq,
		},
	)
	return err
}
