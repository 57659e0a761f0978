package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nsqio/go-nsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireloop/backend/features/delivery"
)

type mockMailer struct {
	sent []DeliveryJob
	err  error
}

func (m *mockMailer) Send(ctx context.Context, job DeliveryJob) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, job)
	return nil
}

type mockDeadLetters struct {
	saved []delivery.FailedDelivery
	err   error
}

func (m *mockDeadLetters) Save(ctx context.Context, fd *delivery.FailedDelivery) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *fd)
	return nil
}

func validJob() DeliveryJob {
	return DeliveryJob{
		Name:    "expired-job-42",
		JobID:   42,
		JobName: "Backend Engineer",
		Enterprise: EnterpriseContact{
			EnterpriseID: 7,
			Email:        "hiring@acme.test",
			Name:         "Acme Corp",
		},
	}
}

func newMessage(t *testing.T, job DeliveryJob, attempts uint16) *nsq.Message {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)

	m := nsq.NewMessage(nsq.MessageID{}, body)
	m.Attempts = attempts
	return m
}

func TestHandleMessage_Success(t *testing.T) {
	mailer := &mockMailer{}
	dl := &mockDeadLetters{}
	c := NewExpiredConsumer("job-expired", mailer, dl, 5)

	err := c.HandleMessage(newMessage(t, validJob(), 1))

	assert.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, int64(42), mailer.sent[0].JobID)
	assert.Empty(t, dl.saved)
}

func TestHandleMessage_FailureRequeues(t *testing.T) {
	mailer := &mockMailer{err: errors.New("mail service 503")}
	dl := &mockDeadLetters{}
	c := NewExpiredConsumer("job-expired", mailer, dl, 5)

	err := c.HandleMessage(newMessage(t, validJob(), 2))

	assert.Error(t, err) // rethrown so NSQ retries
	assert.Empty(t, dl.saved)
}

func TestHandleMessage_ExhaustedAttemptsDeadLetters(t *testing.T) {
	mailer := &mockMailer{err: errors.New("mail service 503")}
	dl := &mockDeadLetters{}
	c := NewExpiredConsumer("job-expired", mailer, dl, 5)

	err := c.HandleMessage(newMessage(t, validJob(), 5))

	assert.NoError(t, err) // dropped after dead-lettering
	require.Len(t, dl.saved, 1)
	assert.Equal(t, "job-expired", dl.saved[0].Topic)
	assert.Equal(t, 5, dl.saved[0].Attempts)
	assert.Contains(t, dl.saved[0].Error, "503")

	var job DeliveryJob
	require.NoError(t, json.Unmarshal(dl.saved[0].Payload, &job))
	assert.Equal(t, "expired-job-42", job.Name)
}

func TestHandleMessage_PoisonPill(t *testing.T) {
	mailer := &mockMailer{}
	dl := &mockDeadLetters{}
	c := NewExpiredConsumer("job-expired", mailer, dl, 5)

	m := nsq.NewMessage(nsq.MessageID{}, []byte("{not json"))

	assert.NoError(t, c.HandleMessage(m)) // invalid JSON is never retried
	assert.Empty(t, mailer.sent)
	assert.Empty(t, dl.saved)
}

func TestHandleMessage_MalformedJobDropped(t *testing.T) {
	mailer := &mockMailer{}
	dl := &mockDeadLetters{}
	c := NewExpiredConsumer("job-expired", mailer, dl, 5)

	job := validJob()
	job.Enterprise.Email = ""

	assert.NoError(t, c.HandleMessage(newMessage(t, job, 1)))
	assert.Empty(t, mailer.sent)
}

func TestHandleMessage_EmptyBody(t *testing.T) {
	c := NewExpiredConsumer("job-expired", &mockMailer{}, &mockDeadLetters{}, 5)
	assert.NoError(t, c.HandleMessage(nsq.NewMessage(nsq.MessageID{}, nil)))
}

func TestDeliveryJob_Validate(t *testing.T) {
	assert.NoError(t, validJob().Validate())

	cases := []struct {
		name   string
		mutate func(*DeliveryJob)
	}{
		{"MissingJobID", func(j *DeliveryJob) { j.JobID = 0 }},
		{"MissingJobName", func(j *DeliveryJob) { j.JobName = "" }},
		{"MissingEnterpriseID", func(j *DeliveryJob) { j.Enterprise.EnterpriseID = 0 }},
		{"MissingEmail", func(j *DeliveryJob) { j.Enterprise.Email = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := validJob()
			tc.mutate(&j)
			assert.ErrorIs(t, j.Validate(), ErrInvalidDeliveryJob)
		})
	}
}
