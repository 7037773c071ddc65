package contact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/content"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []content.ContactSubmission
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSender) SendContact(_ context.Context, sub content.ContactSubmission) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sub)
	return f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeNotifier struct {
	got []content.ContactSubmission
	err error
}

func (f *fakeNotifier) Notify(_ context.Context, sub content.ContactSubmission) error {
	f.got = append(f.got, sub)
	return f.err
}

var valid = content.ContactSubmission{
	Name:    "Ada",
	Email:   "ada@example.com",
	Subject: "Collaboration",
	Message: "Let's build something.",
}

func TestSubmitSuccessClearsFieldsAndReverts(t *testing.T) {
	clk := clock.NewMock()
	sender := &fakeSender{entered: make(chan struct{}), release: make(chan struct{})}
	f := NewForm(sender, nil, clk, "Portfolio Inquiry")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), valid) }()
	<-sender.entered
	assert.Equal(t, Submitting, f.View().State)
	close(sender.release)
	require.NoError(t, <-done)

	v := f.View()
	assert.Equal(t, Succeeded, v.State)
	assert.Equal(t, content.ContactSubmission{Subject: "Collaboration"}, v.Fields)

	clk.Add(RevertAfter - time.Millisecond)
	assert.Equal(t, Succeeded, f.View().State)
	clk.Add(time.Millisecond)
	assert.Eventually(t, func() bool { return f.View().State == Idle }, time.Second, time.Millisecond)
}

func TestSubmitFailureKeepsFieldsAndMessage(t *testing.T) {
	clk := clock.NewMock()
	sender := &fakeSender{err: &api.RequestError{Status: 500, Message: "Server unreachable"}}
	f := NewForm(sender, nil, clk, "Portfolio Inquiry")

	err := f.Submit(context.Background(), valid)

	require.Error(t, err)
	v := f.View()
	assert.Equal(t, Failed, v.State)
	assert.Equal(t, "Server unreachable", v.Error)
	assert.Equal(t, valid, v.Fields)

	clk.Add(time.Minute)
	assert.Equal(t, Failed, f.View().State, "failure holds until the next submit")
}

func TestSubmitFailureWithoutMessageUsesFallback(t *testing.T) {
	f := NewForm(&fakeSender{err: errors.New("dial tcp: refused")}, nil, clock.NewMock(), "")

	require.Error(t, f.Submit(context.Background(), valid))

	assert.Equal(t, api.FallbackMessage, f.View().Error)
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	sender := &fakeSender{entered: make(chan struct{}), release: make(chan struct{})}
	f := NewForm(sender, nil, clock.NewMock(), "")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background(), valid) }()
	<-sender.entered

	assert.ErrorIs(t, f.Submit(context.Background(), valid), ErrBusy)
	close(sender.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sender.count())
}

func TestSubmitValidatesWithoutSending(t *testing.T) {
	sender := &fakeSender{}
	f := NewForm(sender, nil, clock.NewMock(), "")

	err := f.Submit(context.Background(), content.ContactSubmission{Name: "Ada", Email: "not-an-email", Message: "hi"})

	var ve *content.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, sender.count())
	v := f.View()
	assert.Equal(t, Failed, v.State)
	assert.Equal(t, "not-an-email", v.Fields.Email)
}

func TestEmptySubjectGetsDefault(t *testing.T) {
	sender := &fakeSender{}
	f := NewForm(sender, nil, clock.NewMock(), "Portfolio Inquiry")
	assert.Equal(t, "Portfolio Inquiry", f.View().Fields.Subject)

	sub := valid
	sub.Subject = " "
	require.NoError(t, f.Submit(context.Background(), sub))

	assert.Equal(t, "Portfolio Inquiry", sender.sent[0].Subject)
}

func TestResubmitAfterSuccessCancelsRevert(t *testing.T) {
	clk := clock.NewMock()
	sender := &fakeSender{}
	f := NewForm(sender, nil, clk, "")
	require.NoError(t, f.Submit(context.Background(), valid))

	clk.Add(3 * time.Second)
	sender.err = &api.RequestError{Status: 503, Message: "down"}
	require.Error(t, f.Submit(context.Background(), valid))
	clk.Add(3 * time.Second)

	assert.Equal(t, Failed, f.View().State)
}

func TestOwnerIsNotifiedOnlyOnSuccess(t *testing.T) {
	n := &fakeNotifier{err: errors.New("smtp down")}
	sender := &fakeSender{err: errors.New("api down")}
	f := NewForm(sender, n, clock.NewMock(), "")

	require.Error(t, f.Submit(context.Background(), valid))
	assert.Empty(t, n.got)

	sender.err = nil
	require.NoError(t, f.Submit(context.Background(), valid), "notification failure is not the visitor's problem")
	require.Len(t, n.got, 1)
	assert.Equal(t, "ada@example.com", n.got[0].Email)
}

func TestDesk(t *testing.T) {
	clk := clock.NewMock()
	d := NewDesk(&fakeSender{}, nil, clk, "Portfolio Inquiry")

	a := d.Form("a")
	assert.Same(t, a, d.Form("a"))
	assert.NotSame(t, a, d.Form("b"))

	clk.Add(2 * time.Hour)
	require.NoError(t, d.Form("b").Submit(context.Background(), valid))

	assert.Equal(t, 1, d.Sweep(time.Hour))
	assert.NotSame(t, a, d.Form("a"))
}
