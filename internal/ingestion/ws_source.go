package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig configures WebSocket record source behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
	}
}

// WSRecordSource streams raw action records from a WebSocket endpoint.
// Each text message is expected to be one JSON object (a raw record) or a
// JSON array of objects. Non-object payloads are dropped with a log line.
type WSRecordSource struct {
	endpoint string
	config   WSConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSRecordSource connects to the endpoint and returns a source ready
// for Subscribe.
func NewWSRecordSource(ctx context.Context, endpoint string, config *WSConfig) (*WSRecordSource, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	s := &WSRecordSource{
		endpoint: endpoint,
		config:   cfg,
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// connect establishes the WebSocket connection.
func (s *WSRecordSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// Subscribe returns a channel of raw records. The channel is closed when the
// context is cancelled or the source is closed. Reconnects with exponential
// backoff on read failures.
func (s *WSRecordSource) Subscribe(ctx context.Context) (<-chan map[string]any, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("source is closed")
	}

	records := make(chan map[string]any, 100)

	s.wg.Add(2)
	go s.readLoop(ctx, records)
	go s.pingLoop(ctx)

	return records, nil
}

// readLoop reads messages, decodes records and forwards them.
func (s *WSRecordSource) readLoop(ctx context.Context, records chan<- map[string]any) {
	defer s.wg.Done()
	defer close(records)

	delay := s.config.ReconnectDelay

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil {
				return
			}
			log.Printf("[ws] read error, reconnecting in %v: %v", delay, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
			if delay *= 2; delay > s.config.MaxReconnectDelay {
				delay = s.config.MaxReconnectDelay
			}
			if err := s.connect(ctx); err != nil {
				log.Printf("[ws] reconnect failed: %v", err)
			}
			continue
		}
		delay = s.config.ReconnectDelay

		for _, rec := range decodeRecords(payload) {
			select {
			case records <- rec:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}

// decodeRecords parses a message payload into zero or more raw records.
func decodeRecords(payload []byte) []map[string]any {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		log.Printf("[ws] dropping non-json message: %v", err)
		return nil
	}

	switch v := doc.(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		return listToRecords(v)
	default:
		log.Printf("[ws] dropping non-object payload")
		return nil
	}
}

// pingLoop keeps the connection alive.
func (s *WSRecordSource) pingLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
			s.connMu.Unlock()
			if err != nil && !s.closed.Load() {
				log.Printf("[ws] ping failed: %v", err)
			}
		}
	}
}

// Close shuts the source down and waits for goroutines to exit.
func (s *WSRecordSource) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	err := s.conn.Close()
	s.connMu.Unlock()

	s.wg.Wait()
	return err
}
