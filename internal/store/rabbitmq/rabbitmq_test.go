package rabbitmq

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesFor(t *testing.T) {
	n := namesFor("illustration_jobs")
	assert.Equal(t, "illustration_jobs", n.main)
	assert.Equal(t, "illustration_jobs.dlq", n.dlq)
}

type declaredQueue struct {
	name string
	args amqp.Table
}

type recordingDeclarer struct {
	queues []declaredQueue
}

func (d *recordingDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	d.queues = append(d.queues, declaredQueue{name: name, args: args})
	return amqp.Queue{Name: name}, nil
}

func TestDeclareTopology(t *testing.T) {
	d := &recordingDeclarer{}
	require.NoError(t, declareTopology(d, "illustration_jobs"))

	require.Len(t, d.queues, 2)
	assert.Equal(t, "illustration_jobs.dlq", d.queues[0].name)
	assert.Nil(t, d.queues[0].args)
	assert.Equal(t, "illustration_jobs", d.queues[1].name)
	assert.Equal(t, "illustration_jobs.dlq", d.queues[1].args["x-dead-letter-routing-key"])
}

func TestPublishingRoundTrip(t *testing.T) {
	msg, err := newPublishing("01JOB")
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "01JOB", msg.MessageId)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Minute)

	m, err := DecodeJob(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "01JOB", m.JobID)
}

func TestDecodeJob_Bad(t *testing.T) {
	_, err := DecodeJob([]byte("nope"))
	assert.ErrorIs(t, err, ErrBadMessage)

	_, err = DecodeJob([]byte(`{"job_id":""}`))
	assert.ErrorIs(t, err, ErrBadMessage)
}
