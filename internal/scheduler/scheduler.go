// Package scheduler decides how a request is answered: a greeting when the
// caller sent data, otherwise the default scheduled SMS; and independently, a
// custom SMS whenever the body carries both a phone and a message.
package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jredh-dev/locci-scheduler/internal/request"
	"github.com/jredh-dev/locci-scheduler/internal/sms"
)

// Response texts.
const (
	GreetingMessage  = "Hello from Locci Scheduler - Data received!"
	SMSSentMessage   = "SMS sent successfully"
	SMSFailedMessage = "Failed to send SMS"
)

// DefaultSenderID is used when neither the configuration nor the request
// names a sender.
const DefaultSenderID = "UjumbeSMS"

// Routes reported to the Observer.
const (
	RouteGreeting   = "greeting"
	RouteDefaultSMS = "default_sms"
)

const (
	dispatchDefault = "default"
	dispatchCustom  = "custom"
)

// Dispatcher sends one SMS and always returns an Outcome.
type Dispatcher interface {
	Send(ctx context.Context, phone, message, senderID string) sms.Outcome
}

// Observer receives route and dispatch events. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveRoute(route string)
	ObserveDispatch(kind string, ok bool, elapsed time.Duration)
}

// DefaultSMS is the message sent when a request carries no data.
type DefaultSMS struct {
	Phone    string
	Message  string
	SenderID string
}

// Input is everything the classifier looks at.
type Input struct {
	Data  *request.InboundData
	Query request.QueryParams
}

// Result is the message text and data to put in the response envelope.
// Data is nil when no SMS was attempted.
type Result struct {
	Route   string
	Message string
	Data    json.RawMessage
}

// Scheduler classifies requests and drives the Dispatcher.
type Scheduler struct {
	dispatcher Dispatcher
	defaults   DefaultSMS
	observer   Observer
}

// New creates a Scheduler. Empty DefaultSMS.SenderID falls back to
// DefaultSenderID. observer may be nil.
func New(d Dispatcher, defaults DefaultSMS, observer Observer) *Scheduler {
	if defaults.SenderID == "" {
		defaults.SenderID = DefaultSenderID
	}
	return &Scheduler{dispatcher: d, defaults: defaults, observer: observer}
}

// Run handles one request. Sends happen sequentially and are never
// interrupted by ctx cancellation from the caller side.
func (s *Scheduler) Run(ctx context.Context, in Input, logger *zap.Logger) Result {
	ctx = context.WithoutCancel(ctx)

	var res Result
	if in.Data != nil || len(in.Query) > 0 {
		logger.Info("data detected, returning greeting message")
		res = Result{Route: RouteGreeting, Message: GreetingMessage}
	} else {
		logger.Info("no data detected, sending default SMS")
		out := s.send(ctx, dispatchDefault, s.defaults.Phone, s.defaults.Message, s.defaults.SenderID)
		res = Result{Route: RouteDefaultSMS, Data: out.Payload()}
		if out.OK() {
			logger.Info("default SMS sent successfully")
			res.Message = SMSSentMessage
		} else {
			logger.Error("failed to send default SMS", zap.String("error", out.Err))
			res.Message = SMSFailedMessage
		}
	}
	s.observeRoute(res.Route)

	if data := in.Data; data != nil {
		if data.Phone != nil && data.Message != nil {
			sender := s.defaults.SenderID
			if data.SenderID != nil {
				sender = *data.SenderID
			}

			logger.Info("sending custom SMS based on request data")
			out := s.send(ctx, dispatchCustom, *data.Phone, *data.Message, sender)
			if out.OK() {
				logger.Info("custom SMS sent successfully", zap.String("to", *data.Phone))
			} else {
				logger.Error("failed to send custom SMS", zap.String("to", *data.Phone), zap.String("error", out.Err))
			}
			res.Data = out.Payload()
		} else {
			if data.Phone == nil {
				logger.Debug("no phone number provided in request data")
			}
			if data.Message == nil {
				logger.Debug("no message provided in request data")
			}
		}
	}

	return res
}

func (s *Scheduler) send(ctx context.Context, kind, phone, message, senderID string) sms.Outcome {
	start := time.Now()
	out := s.dispatcher.Send(ctx, phone, message, senderID)
	if s.observer != nil {
		s.observer.ObserveDispatch(kind, out.OK(), time.Since(start))
	}
	return out
}

func (s *Scheduler) observeRoute(route string) {
	if s.observer != nil {
		s.observer.ObserveRoute(route)
	}
}
