package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/biruk-1/Health-coach-sub000/internal/metrics"
	"github.com/biruk-1/Health-coach-sub000/pkg/log"
	"github.com/biruk-1/Health-coach-sub000/pkg/pubsub"
)

// ErrUnknownCoach is returned when a coach event names a coach the cache
// does not hold.
var ErrUnknownCoach = errors.New("unknown coach")

// Target receives directory mutations.
type Target interface {
	SetVerified(id string, verified bool) bool
	Invalidate()
}

// Subscriber applies directory events from the bus to a Target.
type Subscriber struct {
	sub     pubsub.Subscriber
	channel string
	target  Target
	metrics *metrics.Metrics
}

// NewSubscriber creates a subscriber for channel.
func NewSubscriber(sub pubsub.Subscriber, channel string, target Target, m *metrics.Metrics) *Subscriber {
	if channel == "" {
		channel = pubsub.DefaultDirectoryChannel
	}
	if m == nil {
		m = metrics.New()
	}
	return &Subscriber{sub: sub, channel: channel, target: target, metrics: m}
}

// Run consumes events until ctx is cancelled or the subscription closes.
func (s *Subscriber) Run(ctx context.Context) error {
	events, err := s.sub.Subscribe(ctx, s.channel)
	if err != nil {
		return err
	}

	logger := log.Ctx(ctx).With().Str("channel", s.channel).Logger()
	logger.Info().Msg("listening for directory events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.Apply(ctx, ev); err != nil {
				s.metrics.RecordEvent(ev.Type, "rejected")
				logger.Warn().Err(err).Str("type", ev.Type).Str(log.FieldCoachID, ev.CoachID).Msg("directory event not applied")
				continue
			}
			s.metrics.RecordEvent(ev.Type, "applied")
		}
	}
}

// Apply applies a single event.
func (s *Subscriber) Apply(ctx context.Context, ev *pubsub.Event) error {
	switch ev.Type {
	case pubsub.EventCoachVerified:
		if ev.CoachID == "" {
			return errors.New("coach.verified without coach id")
		}
		var p pubsub.CoachVerifiedPayload
		if err := ev.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("invalid coach.verified payload: %w", err)
		}
		if !s.target.SetVerified(ev.CoachID, p.Verified) {
			return fmt.Errorf("%w: %s", ErrUnknownCoach, ev.CoachID)
		}
		log.Ctx(ctx).Info().Str(log.FieldCoachID, ev.CoachID).Bool("verified", p.Verified).Msg("coach verification updated")
		return nil

	case pubsub.EventDirectoryInvalidated:
		s.target.Invalidate()
		log.Ctx(ctx).Info().Msg("directory cache invalidated")
		return nil

	default:
		return fmt.Errorf("unsupported event type %q", ev.Type)
	}
}

// PublishInvalidated asks every instance listening on channel to refresh.
func PublishInvalidated(ctx context.Context, pub pubsub.Publisher, channel, reason string) error {
	if channel == "" {
		channel = pubsub.DefaultDirectoryChannel
	}
	ev, err := pubsub.NewEvent(pubsub.EventDirectoryInvalidated, "", pubsub.DirectoryInvalidatedPayload{Reason: reason})
	if err != nil {
		return err
	}
	return pub.Publish(ctx, channel, ev)
}

// PublishVerified announces a coach verification change.
func PublishVerified(ctx context.Context, pub pubsub.Publisher, channel, coachID string, verified bool) error {
	if channel == "" {
		channel = pubsub.DefaultDirectoryChannel
	}
	ev, err := pubsub.NewEvent(pubsub.EventCoachVerified, coachID, pubsub.CoachVerifiedPayload{Verified: verified})
	if err != nil {
		return err
	}
	return pub.Publish(ctx, channel, ev)
}
