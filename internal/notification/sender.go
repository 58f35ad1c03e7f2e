package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"staysphere-backend/internal/model"
)

// DispatchError reports a failed delivery on one channel. It is never fatal
// to the booking transition that produced the notice.
type DispatchError struct {
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s dispatch failed: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Sender delivers a notice over one channel.
type Sender interface {
	Send(ctx context.Context, n Notice) error
}

// LogSender only records the notice. It is used when no channel is configured.
type LogSender struct {
	Log zerolog.Logger
}

func (s LogSender) Send(_ context.Context, n Notice) error {
	s.Log.Info().Stringer("notice_id", n.ID).Int64("booking_id", n.BookingID).
		Str("status", n.Status).Str("guest", n.GuestContact).Msg("booking notice")
	return nil
}

// MultiSender fans a notice out to every sender and joins their errors.
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, n Notice) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &DispatchError{Channel: "multi", Err: errors.Join(errs...)}
}

// WebhookSender posts the notice as JSON to an HTTP function endpoint.
type WebhookSender struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewWebhookSender creates a webhook sender. An invalid proxy URL is
// reported and the sender falls back to a direct connection.
func NewWebhookSender(endpoint string, headers map[string]string, proxy string, timeout time.Duration, log zerolog.Logger) *WebhookSender {
	var transport http.RoundTripper = &http.Transport{}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.Warn().Err(err).Str("proxy", proxy).Msg("invalid webhook proxy URL, connecting directly")
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebhookSender{
		url:     endpoint,
		headers: headers,
		client:  &http.Client{Transport: transport, Timeout: timeout},
	}
}

func (s *WebhookSender) Send(ctx context.Context, n Notice) error {
	body, err := json.Marshal(n)
	if err != nil {
		return &DispatchError{Channel: "webhook", Err: fmt.Errorf("failed to marshal notice: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return &DispatchError{Channel: "webhook", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &DispatchError{Channel: "webhook", Err: fmt.Errorf("http request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DispatchError{Channel: "webhook", Err: fmt.Errorf("received status code %d", resp.StatusCode)}
	}
	return nil
}

// PushClient sends a single web push message.
type PushClient interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushClient is the real PushClient backed by the webpush library.
type WebPushClient struct{}

func (WebPushClient) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WebPushSender pushes the notice to every browser subscription of the guest.
type WebPushSender struct {
	db      *gorm.DB
	options *webpush.Options
	client  PushClient
	log     zerolog.Logger
}

// NewWebPushSender creates a sender that looks up subscriptions in db.
func NewWebPushSender(db *gorm.DB, options *webpush.Options, log zerolog.Logger) *WebPushSender {
	return &WebPushSender{db: db, options: options, client: WebPushClient{}, log: log}
}

// Send looks up the subscriptions of the guest who owns the booking.
func (s *WebPushSender) Send(ctx context.Context, n Notice) error {
	var subscriptions []model.PushSubscription
	if err := s.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.guest_id = push_subscriptions.guest_id").
		Where("bookings.id = ?", n.BookingID).
		Find(&subscriptions).Error; err != nil {
		return &DispatchError{Channel: "webpush", Err: fmt.Errorf("failed to fetch subscriptions: %w", err)}
	}
	if len(subscriptions) == 0 {
		return nil
	}

	payload := []byte(pushMessage(n))
	var errs []error
	for _, sub := range subscriptions {
		if err := s.push(ctx, sub, payload); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &DispatchError{Channel: "webpush", Err: errors.Join(errs...)}
	}
	return nil
}

func pushMessage(n Notice) string {
	switch n.Status {
	case string(model.BookingConfirmed):
		return fmt.Sprintf("Your stay at %s is confirmed by %s.", n.PropertyName, n.HostName)
	case string(model.BookingDeclined):
		return fmt.Sprintf("Your request for %s was declined.", n.PropertyName)
	case string(model.BookingCancelled):
		return fmt.Sprintf("Your stay at %s was cancelled.", n.PropertyName)
	default:
		return fmt.Sprintf("Booking #%d at %s is now %s.", n.BookingID, n.PropertyName, n.Status)
	}
}

func (s *WebPushSender) push(ctx context.Context, sub model.PushSubscription, payload []byte) error {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := s.client.Send(payload, wpSub, s.options)
	if err != nil {
		return fmt.Errorf("push to %s: %w", sub.Endpoint, err)
	}
	defer resp.Body.Close()

	// Expired subscriptions are removed so they are not retried on the next notice.
	if resp.StatusCode == http.StatusGone {
		s.log.Info().Str("endpoint", sub.Endpoint).Msg("push subscription expired, deleting")
		if err := s.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			s.log.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to delete expired subscription")
		}
	}
	return nil
}
