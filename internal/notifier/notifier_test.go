package notifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/notifier"
)

func TestHTTPNotifier_PostsEnvelope(t *testing.T) {
	var got map[string][]map[string]string
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := notifier.NewHTTPNotifier(srv.URL, time.Second)
	require.NoError(t, n.Notify(context.Background(), "hello"))

	assert.Equal(t, "application/json", contentType)
	require.Len(t, got["Records"], 1)
	assert.Equal(t, "ws", got["Records"][0]["EventSource"])
	assert.Equal(t, "hello", got["Records"][0]["Message"])
}

func TestHTTPNotifier_ErrorStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		err := notifier.NewHTTPNotifier(srv.URL, time.Second).Notify(context.Background(), "msg")
		assert.ErrorIs(t, err, notifier.ErrUnexpectedStatus, "status %d", status)
		srv.Close()
	}
}

func TestHTTPNotifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	err := notifier.NewHTTPNotifier(srv.URL, 50*time.Millisecond).Notify(context.Background(), "msg")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPNotifier_NoEndpoint(t *testing.T) {
	err := notifier.NewHTTPNotifier("", 0).Notify(context.Background(), "msg")
	assert.ErrorIs(t, err, notifier.ErrNoEndpoint)
}

func TestFormatWorkoutMessage(t *testing.T) {
	w := &domain.Workout{
		ID:      "abc",
		WodType: domain.WodTypeA,
		Weights: [3]decimal.Decimal{
			decimal.RequireFromString("22.5"),
			decimal.NewFromInt(20),
			decimal.RequireFromString("32.5"),
		},
	}

	msg := notifier.FormatWorkoutMessage(w, "https://wod.example.com/")
	want := "🏋🏻‍♂️ *WORKOUT OF THE DAY*:\n" +
		"SQUAT: 22.5\n" +
		"BENCH PRESS: 20.0\n" +
		"ROW: 32.5\n" +
		"\n>> [DONE!](https://wod.example.com/workout/abc)\n\n" +
		"Remember *GARMIN* and *WATER BOTTLE*"
	assert.Equal(t, want, msg)
}

func TestFormatWorkoutMessage_TypeB(t *testing.T) {
	w := &domain.Workout{ID: "b1", WodType: domain.WodTypeB}

	msg := notifier.FormatWorkoutMessage(w, "https://wod.example.com")
	assert.Contains(t, msg, "SQUAT: 0.0\n")
	assert.Contains(t, msg, "MILITARY PRESS: 0.0\n")
	assert.Contains(t, msg, "DEADLIFT: 0.0\n")
	assert.Contains(t, msg, "(https://wod.example.com/workout/b1)")
}
