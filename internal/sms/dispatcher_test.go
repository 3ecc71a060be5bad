package sms

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubSender struct {
	resp json.RawMessage
	err  error
	got  []OutboundMessage
}

func (s *stubSender) Send(_ context.Context, msg OutboundMessage) (json.RawMessage, error) {
	s.got = append(s.got, msg)
	return s.resp, s.err
}

type blankError struct{}

func (blankError) Error() string { return "" }

func TestDispatcher_Success(t *testing.T) {
	stub := &stubSender{resp: json.RawMessage(`{"status":{"type":"success"}}`)}
	d := NewDispatcher(stub, zaptest.NewLogger(t))

	out := d.Send(context.Background(), "254700000000", "hi", "X")
	require.True(t, out.OK())
	assert.JSONEq(t, `{"status":{"type":"success"}}`, string(out.Payload()))

	require.Len(t, stub.got, 1)
	msg := stub.got[0]
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "254700000000", msg.To)
	assert.Equal(t, "hi", msg.Body)
	assert.Equal(t, "X", msg.SenderID)
}

func TestDispatcher_Failure(t *testing.T) {
	stub := &stubSender{err: errors.New("http post: connection refused")}
	d := NewDispatcher(stub, zaptest.NewLogger(t))

	out := d.Send(context.Background(), "1", "m", "s")
	assert.False(t, out.OK())
	assert.Nil(t, out.Response)
	assert.JSONEq(t, `{"error":"http post: connection refused"}`, string(out.Payload()))
}

func TestDispatcher_BlankErrorStillFails(t *testing.T) {
	d := NewDispatcher(&stubSender{err: blankError{}}, zaptest.NewLogger(t))

	out := d.Send(context.Background(), "1", "m", "s")
	assert.False(t, out.OK())
	assert.Contains(t, out.Err, "send failed")
}

func TestDispatcher_EmptyResponseBecomesNull(t *testing.T) {
	d := NewDispatcher(&stubSender{}, zaptest.NewLogger(t))

	out := d.Send(context.Background(), "1", "m", "s")
	require.True(t, out.OK())
	assert.Equal(t, "null", string(out.Payload()))
}

func TestDispatcher_UniqueIDs(t *testing.T) {
	stub := &stubSender{resp: json.RawMessage(`{}`)}
	d := NewDispatcher(stub, zaptest.NewLogger(t))

	d.Send(context.Background(), "1", "m", "s")
	d.Send(context.Background(), "1", "m", "s")
	require.Len(t, stub.got, 2)
	assert.NotEqual(t, stub.got[0].ID, stub.got[1].ID)
}

func TestDispatcher_InvalidJSONResponseFails(t *testing.T) {
	d := NewDispatcher(&stubSender{resp: json.RawMessage(`{"status":`)}, zaptest.NewLogger(t))

	out := d.Send(context.Background(), "1", "m", "s")
	assert.False(t, out.OK())
	assert.Nil(t, out.Response)
	assert.True(t, json.Valid(out.Payload()))
	assert.Contains(t, string(out.Payload()), "invalid JSON")
}
