package queue

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingAck struct {
	acked, nacked, rejected int
	requeue                 bool
}

func (a *recordingAck) Ack(uint64, bool) error { a.acked++; return nil }

func (a *recordingAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *recordingAck) Reject(_ uint64, requeue bool) error {
	a.rejected++
	a.requeue = requeue
	return nil
}

func TestHandleAcksProcessedJob(t *testing.T) {
	r := &RabbitMQ{logger: zap.NewNop()}
	ack := &recordingAck{}

	var got BatchJob
	r.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(`{"session_id":"s1","candidate_name":"Lan","qa_pairs":[{"question":"q","answer":"a"}]}`),
	}, func(_ context.Context, job BatchJob) error {
		got = job
		return nil
	})

	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, "s1", got.SessionID)
	in := got.Input()
	assert.Equal(t, "Lan", in.CandidateName)
	assert.Len(t, in.Pairs, 1)
}

func TestHandleRejectsMalformedJob(t *testing.T) {
	r := &RabbitMQ{logger: zap.NewNop()}
	ack := &recordingAck{}
	called := false

	r.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("not json")},
		func(context.Context, BatchJob) error { called = true; return nil })

	assert.False(t, called)
	assert.Equal(t, 1, ack.rejected)
	assert.False(t, ack.requeue)
}

func TestHandleNacksFailedJobWithoutRequeue(t *testing.T) {
	r := &RabbitMQ{logger: zap.NewNop()}
	ack := &recordingAck{}

	r.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte(`{"session_id":"s"}`)},
		func(context.Context, BatchJob) error { return errors.New("db down") })

	assert.Equal(t, 1, ack.nacked)
	assert.Zero(t, ack.acked)
	assert.False(t, ack.requeue)
}
