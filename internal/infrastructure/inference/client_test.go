package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClassifier_EmptyEndpoint(t *testing.T) {
	require.Nil(t, NewClassifier("sentiment", "  ", time.Second, nil))
	require.Nil(t, NewRecommender("", time.Second, nil))
}

func TestClassifier_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "great work", body["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"label":"POSITIVE","confidence":0.93}`))
	}))
	defer srv.Close()

	c := NewClassifier("sentiment", srv.URL, time.Second, nil)
	require.NotNil(t, c)

	got, err := c.Classify(context.Background(), "great work")
	require.NoError(t, err)
	require.Equal(t, "positive", got.Label)
	require.InDelta(t, 0.93, got.Confidence, 1e-9)
}

func TestClassifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClassifier("toxicity", srv.URL, time.Second, nil)
	_, err := c.Classify(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=503")
}

func TestRecommender_Recommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body recommendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, int64(7), body.ProfileID)
		require.Equal(t, 3, body.Limit)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_ids":[4,2,9]}`))
	}))
	defer srv.Close()

	r := NewRecommender(srv.URL, time.Second, nil)
	ids, err := r.Recommend(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 2, 9}, ids)
}
