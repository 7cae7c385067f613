// Package queue carries asynchronous batch grading jobs over RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/logger"
	"github.com/fadilmartias/interview-grader/internal/pipeline"
)

const publishTimeout = 5 * time.Second

// BatchJob is one interview session waiting to be graded.
type BatchJob struct {
	SessionID       string            `json:"session_id"`
	CandidateName   string            `json:"candidate_name"`
	InterviewerName string            `json:"interviewer_name"`
	Position        string            `json:"position"`
	Pairs           []pipeline.QAPair `json:"qa_pairs"`
}

func (j BatchJob) Input() pipeline.BatchInput {
	return pipeline.BatchInput{
		SessionID:       j.SessionID,
		CandidateName:   j.CandidateName,
		InterviewerName: j.InterviewerName,
		Position:        j.Position,
		Pairs:           j.Pairs,
	}
}

type Handler func(ctx context.Context, job BatchJob) error

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *zap.Logger
}

// NewRabbitMQ connects and declares the durable job queue.
func NewRabbitMQ(url, queueName string, log *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName, // queue name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queueName, err)
	}

	log = logger.OrNop(log)
	log.Info("connected to RabbitMQ", zap.String("queue", q.Name))

	return &RabbitMQ{conn: conn, channel: ch, queue: q, logger: log}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, job BatchJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    job.SessionID,
			Body:         body,
		},
	)
}

// Consume runs handler for each job until ctx is cancelled or the channel closes.
// Jobs are processed one at a time.
func (r *RabbitMQ) Consume(ctx context.Context, handler Handler) error {
	if err := r.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := r.channel.ConsumeWithContext(
		ctx,
		r.queue.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			r.handle(ctx, d, handler)
		}
	}
}

// handle acks processed jobs and drops malformed ones. Failed jobs are not
// requeued: their interactions may already be recorded.
func (r *RabbitMQ) handle(ctx context.Context, d amqp.Delivery, handler Handler) {
	var job BatchJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		r.logger.Warn("invalid job format", zap.Error(err))
		_ = d.Reject(false)
		return
	}

	if err := handler(ctx, job); err != nil {
		r.logger.Error("job failed", zap.String("session_id", job.SessionID), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		_ = r.conn.Close()
		return err
	}
	return r.conn.Close()
}
