package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/opengrove/feedbridge/internal/domain"
)

const (
	cursorServiceName  = "storyfeed"
	cursorSaveInterval = 5 * time.Second
)

// Subscriber connects to the story feed and hands each story to the
// publish service. One story is processed at a time; publish ordering
// within a story depends on it.
type Subscriber struct {
	url     string
	service *domain.PublishService
	cursors domain.CursorRepository
	logger  *slog.Logger
}

// NewSubscriber creates a new story feed subscriber.
func NewSubscriber(
	feedURL string,
	service *domain.PublishService,
	cursors domain.CursorRepository,
	logger *slog.Logger,
) *Subscriber {
	return &Subscriber{
		url:     feedURL,
		service: service,
		cursors: cursors,
		logger:  logger,
	}
}

// Start connects to the feed and processes events until the context is
// cancelled. Transient connection errors trigger reconnection with
// exponential backoff; a permanent publish failure (no provider
// configured) stops the subscriber and is returned to the caller.
func (s *Subscriber) Start(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // reconnect until cancelled

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := s.subscribe(ctx, bo.Reset)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, domain.ErrNoProviderConfigured) {
			return err
		}

		wait := bo.NextBackOff()
		s.logger.Error("feed connection error, reconnecting", "error", err, "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (s *Subscriber) buildURL(cursor int64) string {
	u, _ := url.Parse(s.url)
	if cursor > 0 {
		q := u.Query()
		q.Set("cursor", fmt.Sprintf("%d", cursor))
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (s *Subscriber) subscribe(ctx context.Context, connected func()) error {
	cursor, err := s.cursors.GetCursor(ctx, cursorServiceName)
	if err != nil {
		s.logger.Warn("failed to load cursor, starting from live", "error", err)
	}

	wsURL := s.buildURL(cursor)
	s.logger.Info("connecting to story feed", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}
	defer conn.Close()

	connected()
	s.logger.Info("connected to story feed")

	lastCursorSave := time.Now()
	var latestCursor int64
	var eventsReceived, storiesPublishedTo int64
	lastStatsLog := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		event, err := parseEvent(message)
		if err != nil {
			s.logger.Error("failed to parse event", "error", err)
			continue
		}

		eventsReceived++
		latestCursor = event.TimeUS

		if event.Kind == "story" && event.Story != nil && event.Object != nil {
			if err := s.handleStory(ctx, event); err != nil {
				if errors.Is(err, domain.ErrNoProviderConfigured) {
					return err
				}
				s.logger.Error("failed to handle story", "error", err)
			} else {
				storiesPublishedTo++
			}
		}

		if time.Since(lastStatsLog) >= 30*time.Second {
			s.logger.Info("feed stats",
				"events_received", eventsReceived,
				"stories_handled", storiesPublishedTo,
			)
			lastStatsLog = time.Now()
		}

		if time.Since(lastCursorSave) >= cursorSaveInterval {
			if err := s.cursors.UpdateCursor(ctx, cursorServiceName, latestCursor); err != nil {
				s.logger.Error("failed to save cursor", "error", err)
			} else {
				lastCursorSave = time.Now()
			}
		}
	}
}

func (s *Subscriber) handleStory(ctx context.Context, event *storyEvent) error {
	story := &domain.Story{
		ID:        event.Story.ID,
		SubjectID: event.Story.SubjectID,
		AuthorID:  event.Story.AuthorID,
		Text:      event.Story.Text,
	}
	if story.ID == "" {
		story.ID = uuid.NewString()
	}

	subject := &domain.Subject{
		ID:             event.Object.ID,
		Kind:           event.Object.Kind,
		ShortName:      event.Object.ShortName,
		Title:          event.Object.Title,
		URI:            event.Object.URI,
		Closed:         event.Object.Closed,
		OwnerID:        event.Object.OwnerID,
		ActiveUserIDs:  event.Object.ActiveUserIDs,
		PassiveUserIDs: event.Object.PassiveUserIDs,
		FollowerIDs:    event.Object.FollowerIDs,
	}

	return s.service.PublishStory(ctx, story, subject)
}

func parseEvent(data []byte) (*storyEvent, error) {
	var event storyEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}
