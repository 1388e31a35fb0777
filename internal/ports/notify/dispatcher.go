package notify

import "context"

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelVoice Channel = "voice"
)

// Dispatcher envía un mensaje por canal. "to" ya incluye el prefijo de país.
// Las implementaciones devuelven error; nunca hacen panic hacia el llamador.
type Dispatcher interface {
	SendText(ctx context.Context, to, message string) error
	MakeVoiceCall(ctx context.Context, to, message string) error
}
