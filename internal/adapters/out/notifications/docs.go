// Package notifications delivers ports.Notification values outside the request path.
//
// Dispatcher implements ports.Notifier. Notify only enqueues; a fixed pool of
// workers hands each notification to a Sender and retries failed sends a bounded
// number of times. A full queue drops the notification with a warning, so a slow
// broker never slows down a command.
//
// Senders:
//   - AMQPSender publishes one persistent JSON message per notification to a
//     durable RabbitMQ queue consumed by the mailer
//   - LogSender writes the notification to the structured log, for local runs
//     without a broker
//
// # Usage
//
//	sender, err := notifications.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Queue, clock)
//	if err != nil {
//		return err
//	}
//	dispatcher := notifications.NewDispatcher(sender, clock, logger, notifications.Config{})
//	dispatcher.Start()
//	defer dispatcher.Shutdown(ctx)
package notifications
