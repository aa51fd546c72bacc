package httpclient

import (
	nethttp "net/http"
)

// logRequest emits the info-level request summary and, when payload logging
// is enabled, a debug event with headers and a truncated body preview.
// Logging is purely observational and never gates control flow.
func (c *client) logRequest(req *nethttp.Request, body []byte, requestID string) {
	event := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID)

	if len(req.Header) > 0 {
		event = event.Int("header_count", len(req.Header))
	}
	if len(body) > 0 {
		event = event.Int("body_size", len(body))
	}
	event.Msg("REST client request")

	if !c.config.LogPayloads {
		return
	}

	preview, truncated := c.payloadPreview(body)
	debug := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Interface("headers", headerMap(req.Header)).
		Int("body_size", len(body)).
		Str("body_truncated", truncated)
	if preview != nil {
		debug = debug.Bytes("body_preview", preview)
	}
	debug.Msg("REST client request")
}

// logResponse emits the info-level response summary and the optional debug
// payload event.
func (c *client) logResponse(resp *Response, requestID string) {
	event := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount).
		Str("request_id", requestID)

	if len(resp.Body) > 0 {
		event = event.Int("body_size", len(resp.Body))
	}
	event.Msg("REST client response")

	if !c.config.LogPayloads {
		return
	}

	preview, truncated := c.payloadPreview(resp.Body)
	debug := c.logger.Debug().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Interface("headers", headerMap(resp.Headers)).
		Int("body_size", len(resp.Body)).
		Str("body_truncated", truncated)
	if preview != nil {
		debug = debug.Bytes("body_preview", preview)
	}
	debug.Msg("REST client response")
}

// payloadPreview truncates body to the configured cap, reporting whether any
// bytes were dropped.
func (c *client) payloadPreview(body []byte) (preview []byte, truncated string) {
	maxBytes := c.config.MaxPayloadLogBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPayloadLogBytes
	}
	if len(body) > maxBytes {
		return body[:maxBytes], "true"
	}
	return body, "false"
}

// headerMap flattens http.Header for structured logging; multi-value headers
// keep their first value.
func headerMap(h nethttp.Header) map[string]string {
	m := make(map[string]string, len(h))
	for key := range h {
		m[key] = h.Get(key)
	}
	return m
}
