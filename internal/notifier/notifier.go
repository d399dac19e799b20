package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wodtracker/wodtracker/internal/domain"
)

// DefaultTimeout bounds a single notification attempt.
const DefaultTimeout = 5 * time.Second

var (
	ErrNoEndpoint       = errors.New("notification endpoint is not configured")
	ErrUnexpectedStatus = errors.New("unexpected notification response status")
)

// Notifier dispatches a single outbound message. There are no retries.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type record struct {
	EventSource string `json:"EventSource"`
	Message     string `json:"Message"`
}

type envelope struct {
	Records []record `json:"Records"`
}

// HTTPNotifier posts messages as JSON to a fixed endpoint.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPNotifier creates a notifier for endpoint. A non-positive timeout falls back to
// DefaultTimeout.
func NewHTTPNotifier(endpoint string, timeout time.Duration) *HTTPNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (n *HTTPNotifier) Notify(ctx context.Context, message string) error {
	if n.endpoint == "" {
		return ErrNoEndpoint
	}

	body, err := json.Marshal(envelope{
		Records: []record{{EventSource: "ws", Message: message}},
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// WorkoutLink returns the front-end deep link for a workout.
func WorkoutLink(frontURL, workoutID string) string {
	return strings.TrimRight(frontURL, "/") + "/workout/" + workoutID
}

// FormatWorkoutMessage renders the workout-of-the-day message: one line per exercise with
// its prescribed weight, followed by the deep link used to mark it done.
func FormatWorkoutMessage(w *domain.Workout, frontURL string) string {
	var sb strings.Builder
	sb.WriteString("🏋🏻‍♂️ *WORKOUT OF THE DAY*:\n")
	for i, name := range w.WodType.ExerciseNames() {
		fmt.Fprintf(&sb, "%s: %s\n", name, w.Weights[i].StringFixed(1))
	}
	fmt.Fprintf(&sb, "\n>> [DONE!](%s)\n\n", WorkoutLink(frontURL, w.ID))
	sb.WriteString("Remember *GARMIN* and *WATER BOTTLE*")
	return sb.String()
}
