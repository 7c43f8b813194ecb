package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestPubSubPublisherAgainstFakeServer(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", srv.Addr)

	admin, err := pubsub.NewClient(ctx, "picnic-test")
	if err != nil {
		t.Fatalf("admin client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "auth-events"); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:     "gcp",
		Type:   TypePubSub,
		PubSub: &PubSubPublisherConfig{ProjectID: "picnic-test", Topic: "auth-events"},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubPublisher: %v", err)
	}
	defer pub.(*pubsubPublisher).Close()

	if err := pub.Publish(ctx, NewEvent(EventLogout, "picnic", "sess-9")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := srv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	var decoded Event
	if err := json.Unmarshal(msgs[0].Data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != EventLogout || msgs[0].Attributes["event_type"] != EventLogout {
		t.Fatalf("unexpected message %+v attrs=%v", decoded, msgs[0].Attributes)
	}
}
