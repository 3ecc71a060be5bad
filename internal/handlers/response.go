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

package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jredh-dev/locci-scheduler/internal/request"
)

// TraceHeader carries the per-request trace id.
const TraceHeader = "X-Trace-Id"

// Envelope is the JSON body returned for every handled request.
type Envelope struct {
	Message     string          `json:"message"`
	Data        json.RawMessage `json:"data"`
	RequestInfo RequestInfo     `json:"request_info"`
	TraceID     string          `json:"trace_id"`
}

// RequestInfo echoes what the endpoint received.
type RequestInfo struct {
	HasBodyData bool                `json:"has_body_data"`
	QueryParams request.QueryParams `json:"query_params"`
	Path        string              `json:"path"`
	Method      string              `json:"method"`
}

// writeEnvelope encodes env and writes it with a 200 status. An envelope that
// cannot be encoded is the only case answered with 500.
func writeEnvelope(w http.ResponseWriter, env Envelope, logger *zap.Logger) {
	if env.RequestInfo.QueryParams == nil {
		env.RequestInfo.QueryParams = request.QueryParams{}
	}

	w.Header().Set(TraceHeader, env.TraceID)

	body, err := json.Marshal(env)
	if err != nil {
		logger.Error("failed to serialize response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	logger.Debug("response serialized successfully")

	w.Header().Set("Content-Type", "application/json")
	cors(w.Header())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
		return
	}
	logger.Info("request processing completed successfully")
}

// writeError answers with a small JSON error that still carries the trace id.
func writeError(w http.ResponseWriter, traceID string, status int, msg string) {
	w.Header().Set(TraceHeader, traceID)
	w.Header().Set("Content-Type", "application/json")
	cors(w.Header())
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "trace_id": traceID})
}

func cors(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}
