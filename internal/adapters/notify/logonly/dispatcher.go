package logonly

import (
	"context"
	"sync"

	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/notify"
)

// Sent es un envío registrado por el dispatcher.
type Sent struct {
	Channel notify.Channel
	To      string
	Message string
}

// Dispatcher no contacta a nadie: loguea y guarda los envíos (dev / sin credenciales).
type Dispatcher struct {
	log logger.Logger

	mu   sync.Mutex
	sent []Sent
}

func New(log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{log: log.With(map[string]any{"component": "notify_logonly"})}
}

var _ notify.Dispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) SendText(ctx context.Context, to, message string) error {
	return d.record(ctx, notify.ChannelSMS, to, message)
}

func (d *Dispatcher) MakeVoiceCall(ctx context.Context, to, message string) error {
	return d.record(ctx, notify.ChannelVoice, to, message)
}

func (d *Dispatcher) Sent() []Sent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Sent, len(d.sent))
	copy(out, d.sent)
	return out
}

func (d *Dispatcher) record(ctx context.Context, ch notify.Channel, to, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.sent = append(d.sent, Sent{Channel: ch, To: to, Message: message})
	d.mu.Unlock()

	d.log.Info("notification (not sent)", map[string]any{
		"channel": string(ch),
		"to":      to,
		"message": message,
	})
	return nil
}
