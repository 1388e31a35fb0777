package logonly

import (
	"context"
	"testing"

	"medication-adherence/internal/ports/notify"
)

func TestDispatcher_RecordsInOrder(t *testing.T) {
	d := New(nil)
	ctx := context.Background()

	if err := d.SendText(ctx, "+911234567890", "hola"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := d.MakeVoiceCall(ctx, "+911234567890", "hola"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	sent := d.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sent))
	}
	if sent[0].Channel != notify.ChannelSMS || sent[1].Channel != notify.ChannelVoice {
		t.Fatalf("unexpected channel order: %+v", sent)
	}
}

func TestDispatcher_CancelledContext(t *testing.T) {
	d := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.SendText(ctx, "+911234567890", "hola"); err == nil {
		t.Fatalf("expected error on cancelled ctx")
	}
	if len(d.Sent()) != 0 {
		t.Fatalf("expected nothing recorded")
	}
}
