// locci-scheduler - SMS scheduling endpoint
// Copyright (C) 2026  locci-scheduler contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// Package handlers contains the scheduler's single HTTP endpoint.
package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jredh-dev/locci-scheduler/internal/request"
	"github.com/jredh-dev/locci-scheduler/internal/scheduler"
)

// bodyPreviewRunes is how much of an unparseable body is logged.
const bodyPreviewRunes = 200

// Handler holds dependencies for the scheduler endpoint.
type Handler struct {
	scheduler    *scheduler.Scheduler
	logger       *zap.Logger
	maxBodyBytes int64
}

// New creates a new Handler. maxBodyBytes <= 0 uses request.DefaultMaxBodyBytes.
func New(s *scheduler.Scheduler, logger *zap.Logger, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = request.DefaultMaxBodyBytes
	}
	return &Handler{scheduler: s, logger: logger, maxBodyBytes: maxBodyBytes}
}

// Schedule handles every method on every path not claimed by another route.
// It answers 200 with an Envelope unless the body is over the size limit (413,
// nothing sent) or the envelope cannot be encoded (500).
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := h.logger.With(zap.String("trace_id", traceID))
	logger.Info("starting request processing")

	path := r.URL.EscapedPath()
	method := r.Method
	query := request.ParseQuery(r.URL.RawQuery)

	logger.Info("processing request", zap.String("method", method), zap.String("path", path))
	if len(query) > 0 {
		logger.Debug("query parameters", zap.Any("query", query))
	}

	interp, err := h.readBody(r, logger)
	if err != nil {
		logger.Warn("rejecting request body", zap.Error(err), zap.Int64("limit", h.maxBodyBytes))
		writeError(w, traceID, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	res := h.scheduler.Run(r.Context(), scheduler.Input{Data: interp.Data, Query: query}, logger)

	logger.Info("building API response")
	writeEnvelope(w, Envelope{
		Message: res.Message,
		Data:    res.Data,
		RequestInfo: RequestInfo{
			HasBodyData: interp.Data != nil,
			QueryParams: query,
			Path:        path,
			Method:      method,
		},
		TraceID: traceID,
	}, logger)
}

// readBody returns an error only for a body over the size limit. Other read
// failures count as an unparseable body.
func (h *Handler) readBody(r *http.Request, logger *zap.Logger) (request.Interpretation, error) {
	body, err := request.ReadBody(r, h.maxBodyBytes)
	if errors.Is(err, request.ErrBodyTooLarge) {
		return request.Interpretation{}, err
	}
	if err != nil {
		logger.Warn("failed to read request body", zap.Error(err))
		return request.Interpretation{Status: request.StatusUnstructured, Err: err}, nil
	}

	switch body.Kind {
	case request.BodyAbsent:
		logger.Debug("received empty body")
	case request.BodyText:
		logger.Debug("received text body", zap.Int("bytes", len(body.Bytes)))
	case request.BodyBinary:
		logger.Debug("received binary body", zap.Int("bytes", len(body.Bytes)))
	}

	interp := request.Interpret(body)
	switch interp.Status {
	case request.StatusEmpty:
		logger.Debug("no body data received")
	case request.StatusParsed:
		logger.Info("successfully parsed request data")
		logger.Debug("parsed request data",
			zap.Stringp("phone", interp.Data.Phone),
			zap.Stringp("message", interp.Data.Message),
			zap.Stringp("sender_id", interp.Data.SenderID))
	case request.StatusUnstructured:
		logger.Warn("failed to parse JSON body", zap.Error(interp.Err))
		if preview, ok := request.Preview(body.Bytes, bodyPreviewRunes); ok {
			logger.Debug("raw body text", zap.String("preview", preview))
		} else {
			logger.Warn("body is not valid UTF-8")
		}
	}
	return interp, nil
}
