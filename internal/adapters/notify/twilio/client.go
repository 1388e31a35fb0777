package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medication-adherence/internal/ports/notify"

	twiliogo "github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"
)

var (
	ErrTwilioNotConfigured = errors.New("twilio client not configured")
	ErrTwilioUpstream      = errors.New("twilio upstream error")
)

// Config del cliente Twilio. Normalmente viene de config (TWILIO_*).
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string

	// Voz/idioma del <Say>. Vacíos => "alice" / "en-IN".
	Voice    string
	Language string
}

// messagingAPI es el subconjunto de la API REST que usamos (permite fakes en tests).
type messagingAPI interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

type Client struct {
	api      messagingAPI
	from     string
	voice    string
	language string
}

func NewClient(cfg Config) *Client {
	c := &Client{
		from:     strings.TrimSpace(cfg.FromNumber),
		voice:    strings.TrimSpace(cfg.Voice),
		language: strings.TrimSpace(cfg.Language),
	}
	if c.voice == "" {
		c.voice = "alice"
	}
	if c.language == "" {
		c.language = "en-IN"
	}

	sid := strings.TrimSpace(cfg.AccountSID)
	token := strings.TrimSpace(cfg.AuthToken)
	if sid != "" && token != "" {
		rc := twiliogo.NewRestClientWithParams(twiliogo.ClientParams{
			Username: sid,
			Password: token,
		})
		c.api = rc.Api
	}
	return c
}

var _ notify.Dispatcher = (*Client)(nil)

func (c *Client) IsConfigured() bool {
	return c != nil && c.api != nil && c.from != ""
}

func (c *Client) SendText(ctx context.Context, to, message string) error {
	if !c.IsConfigured() {
		return ErrTwilioNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(message)

	if _, err := c.api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: sms: %v", ErrTwilioUpstream, err)
	}
	return nil
}

func (c *Client) MakeVoiceCall(ctx context.Context, to, message string) error {
	if !c.IsConfigured() {
		return ErrTwilioNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := c.VoiceDocument(message)
	if err != nil {
		return err
	}

	params := &api.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetTwiml(doc)

	if _, err := c.api.CreateCall(params); err != nil {
		return fmt.Errorf("%w: call: %v", ErrTwilioUpstream, err)
	}
	return nil
}

// VoiceDocument renderiza el TwiML <Response><Say> del mensaje.
func (c *Client) VoiceDocument(message string) (string, error) {
	say := &twiml.VoiceSay{
		Message:  message,
		Voice:    c.voice,
		Language: c.language,
	}
	doc, err := twiml.Voice([]twiml.Element{say})
	if err != nil {
		return "", fmt.Errorf("twiml: %w", err)
	}
	return doc, nil
}
