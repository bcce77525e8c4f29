package video_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga_studio_backend/video"
)

func TestFallbackMeeting_Deterministic(t *testing.T) {
	a := video.FallbackMeeting("Morning Flow", "2025-09-08")
	b := video.FallbackMeeting("Morning Flow", "2025-09-08")
	assert.Equal(t, a, b)
}

func TestFallbackMeeting_Shape(t *testing.T) {
	m := video.FallbackMeeting("Morning Flow", "2025-09-08")

	// Lower-cased, stripped of non-alphanumerics, truncated to ten chars.
	assert.Equal(t, "morningflo", m.MeetingID)
	assert.Equal(t, "https://meet.jit.si/morningflo", m.JoinURL)
	assert.NotEmpty(t, m.Password)
}

func TestFallbackMeeting_NeverEmpty(t *testing.T) {
	m := video.FallbackMeeting("!!!", "")
	assert.NotEmpty(t, m.MeetingID)
	assert.NotEmpty(t, m.JoinURL)
}

func TestCreateMeeting_Success(t *testing.T) {
	var got video.MeetingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"meeting": map[string]any{
				"meeting_id": "111222333",
				"password":   "breathe",
				"join_url":   "https://zoom.us/j/111222333",
				"duration":   60,
			},
		})
	}))
	defer server.Close()

	svc := &video.ZoomService{Endpoint: server.URL}
	meeting, err := svc.CreateMeeting(video.MeetingRequest{
		ClassName:       "Morning Flow",
		Teacher:         "Maya",
		Date:            "2025-09-08",
		Time:            "08:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, "Morning Flow", got.ClassName)
	assert.Equal(t, 60, got.DurationMinutes)
	assert.Equal(t, "https://zoom.us/j/111222333", meeting.JoinURL)
	assert.Equal(t, "breathe", meeting.Password)
}

func TestCreateMeeting_MissingJoinURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"meeting": map[string]any{"meeting_id": "111"},
		})
	}))
	defer server.Close()

	svc := &video.ZoomService{Endpoint: server.URL}
	_, err := svc.CreateMeeting(video.MeetingRequest{ClassName: "Morning Flow"})
	assert.Error(t, err)
}

func TestCreateMeeting_ProxyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := &video.ZoomService{Endpoint: server.URL}
	_, err := svc.CreateMeeting(video.MeetingRequest{ClassName: "Morning Flow"})
	assert.Error(t, err)
}

func TestCreateMeeting_ReportedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "no licenses left"})
	}))
	defer server.Close()

	svc := &video.ZoomService{Endpoint: server.URL}
	_, err := svc.CreateMeeting(video.MeetingRequest{ClassName: "Morning Flow"})
	assert.Error(t, err)
}
