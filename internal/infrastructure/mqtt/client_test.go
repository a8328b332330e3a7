package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/liveosc/liveosc-core/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration. Tests in this file never
// dial the broker; connection coverage lives in integration_test.go.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "liveosc-test",
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// disconnectedClient builds a client that was never connected, for
// exercising the validation and not-connected paths.
func disconnectedClient() *Client {
	return &Client{
		cfg:           testConfig(),
		subscriptions: make(map[string]subscription),
	}
}

func TestPublish_Validation(t *testing.T) {
	c := disconnectedClient()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{
			name:    "empty topic",
			topic:   "",
			payload: []byte("x"),
			qos:     1,
			wantErr: ErrInvalidTopic,
		},
		{
			name:    "invalid qos",
			topic:   "liveosc/event/live/song/get/tempo",
			payload: []byte("x"),
			qos:     3,
			wantErr: ErrInvalidQoS,
		},
		{
			name:    "oversized payload",
			topic:   "liveosc/event/live/song/get/tempo",
			payload: make([]byte, maxPayloadSize+1),
			qos:     1,
			wantErr: ErrPublishFailed,
		},
		{
			name:    "not connected",
			topic:   "liveosc/event/live/song/get/tempo",
			payload: []byte("x"),
			qos:     1,
			wantErr: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := disconnectedClient()
	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("liveosc/command/#", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe() bad qos error = %v, want ErrInvalidQoS", err)
	}
	if err := c.Subscribe("liveosc/command/#", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() nil handler error = %v, want ErrSubscribeFailed", err)
	}
	if err := c.Subscribe("liveosc/command/#", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() disconnected error = %v, want ErrNotConnected", err)
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0 after failed subscribes", c.SubscriptionCount())
	}
}

func TestUnsubscribe_Validation(t *testing.T) {
	c := disconnectedClient()

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe() empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Unsubscribe("liveosc/command/#"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := disconnectedClient()

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheck_CancelledContext(t *testing.T) {
	c := disconnectedClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestClose_NeverConnected(t *testing.T) {
	c := &Client{}

	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}

func TestHasSubscription_NotSubscribed(t *testing.T) {
	c := disconnectedClient()

	if c.HasSubscription("liveosc/command/#") {
		t.Error("HasSubscription() = true, want false")
	}
}

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name:     "Event",
			builder:  func() string { return Topics{}.Event("/live/song/get/tempo") },
			expected: "liveosc/event/live/song/get/tempo",
		},
		{
			name:     "Command",
			builder:  func() string { return Topics{}.Command("/live/song/set/tempo") },
			expected: "liveosc/command/live/song/set/tempo",
		},
		{
			name:     "Reply",
			builder:  func() string { return Topics{}.Reply("/live/song/get/track_names") },
			expected: "liveosc/reply/live/song/get/track_names",
		},
		{
			name:     "SystemStatus",
			builder:  func() string { return Topics{}.SystemStatus() },
			expected: "liveosc/system/status",
		},
		{
			name:     "AllEvents",
			builder:  func() string { return Topics{}.AllEvents() },
			expected: "liveosc/event/#",
		},
		{
			name:     "AllCommands",
			builder:  func() string { return Topics{}.AllCommands() },
			expected: "liveosc/command/#",
		},
		{
			name:     "AllTopics",
			builder:  func() string { return Topics{}.AllTopics() },
			expected: "liveosc/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder(); got != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}

func TestCommandAddress(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{
			name:  "round trip",
			topic: Topics{}.Command("/live/song/set/tempo"),
			want:  "/live/song/set/tempo",
		},
		{
			name:  "wrong prefix",
			topic: "liveosc/event/live/song/get/tempo",
			want:  "",
		},
		{
			name:  "bare prefix",
			topic: "liveosc/command/",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Topics{}).CommandAddress(tt.topic); got != tt.want {
				t.Errorf("CommandAddress(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	t.Run("plain broker", func(t *testing.T) {
		opts := buildClientOptions(testConfig())

		servers := opts.Servers
		if len(servers) != 1 {
			t.Fatalf("servers length = %d, want 1", len(servers))
		}
		if got := servers[0].String(); got != "tcp://127.0.0.1:1883" {
			t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", got)
		}
		if opts.ClientID != "liveosc-test" {
			t.Errorf("ClientID = %q, want liveosc-test", opts.ClientID)
		}
	})

	t.Run("tls switches scheme", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broker.TLS = true
		opts := buildClientOptions(cfg)

		if got := opts.Servers[0].String(); !strings.HasPrefix(got, "ssl://") {
			t.Errorf("broker URL = %q, want ssl:// scheme", got)
		}
	})

	t.Run("credentials applied", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.Username = "bridge"
		cfg.Auth.Password = "secret"
		opts := buildClientOptions(cfg)

		if opts.Username != "bridge" {
			t.Errorf("Username = %q, want bridge", opts.Username)
		}
	})
}

func TestStatusPayloads(t *testing.T) {
	var online, offline struct {
		Status   string `json:"status"`
		ClientID string `json:"client_id"`
		Reason   string `json:"reason"`
	}

	if err := json.Unmarshal([]byte(buildOnlinePayload("liveosc-test")), &online); err != nil {
		t.Fatalf("online payload is not JSON: %v", err)
	}
	if online.Status != "online" || online.ClientID != "liveosc-test" {
		t.Errorf("online payload = %+v", online)
	}

	if err := json.Unmarshal([]byte(buildOfflinePayload("liveosc-test")), &offline); err != nil {
		t.Fatalf("offline payload is not JSON: %v", err)
	}
	if offline.Status != "offline" || offline.Reason != "graceful_shutdown" {
		t.Errorf("offline payload = %+v", offline)
	}
}
