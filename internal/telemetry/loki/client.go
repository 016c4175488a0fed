// Package loki pushes lifecycle events to Grafana Loki as log lines.
package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
)

// PushRequest is the Loki push API request body (v1).
type PushRequest struct {
	Streams []Stream `json:"streams"`
}

// Stream is a single stream with labels and log entries.
type Stream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"` // each entry is [timestamp_ns, log_line]
}

// labelSanitize replaces characters that are invalid in Loki label values.
var labelSanitize = regexp.MustCompile(`[^a-zA-Z0-9_\-:]`)

// Sink is a notify sink that pushes every event as one JSON line, labelled by event kind.
type Sink struct {
	baseURL string
	job     string
	client  *http.Client
}

// NewSink returns a Sink pushing to baseURL (e.g. http://localhost:3100) under the given job label.
func NewSink(baseURL, job string) *Sink {
	return &Sink{baseURL: strings.TrimSuffix(baseURL, "/"), job: job, client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *Sink) Name() string { return "loki" }

// Publish pushes ev at its occurrence time.
func (s *Sink) Publish(ctx context.Context, ev lifecycle.Event) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return s.push(ctx, ts, string(line), map[string]string{"event_kind": string(ev.Kind)})
}

// push sends a single log line. Returns an error if the request fails or Loki returns non-2xx.
func (s *Sink) push(ctx context.Context, timestamp time.Time, line string, labels map[string]string) error {
	if s.baseURL == "" {
		return fmt.Errorf("loki: base URL is empty")
	}
	streamLabels := make(map[string]string, len(labels)+1)
	streamLabels["job"] = s.job
	for k, v := range labels {
		if sanitized := labelSanitize.ReplaceAllString(strings.TrimSpace(v), "_"); sanitized != "" {
			streamLabels[k] = sanitized
		}
	}
	payload, err := json.Marshal(PushRequest{
		Streams: []Stream{{
			Stream: streamLabels,
			Values: [][]string{{strconv.FormatInt(timestamp.UnixNano(), 10), line}},
		}},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/loki/api/v1/push", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("loki: push returned %s", resp.Status)
	}
	return nil
}
