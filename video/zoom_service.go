package video

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	config "yoga_studio_backend/configs"
)

// Meeting is the credential set a booking carries: id, passcode and the link
// students actually click.
type Meeting struct {
	MeetingID string `json:"meeting_id"`
	Password  string `json:"password"`
	JoinURL   string `json:"join_url"`
	StartTime string `json:"start_time,omitempty"`
	Duration  int    `json:"duration,omitempty"`
}

type MeetingRequest struct {
	ClassName       string `json:"className"`
	Teacher         string `json:"teacher"`
	Date            string `json:"date"` // "YYYY-MM-DD"
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
}

type meetingResponse struct {
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
	Meeting Meeting `json:"meeting"`
}

// ZoomService creates meetings through the studio's serverless Zoom proxy.
type ZoomService struct {
	Endpoint string
	APIKey   string
}

var Client *ZoomService

func InitVideoService() {
	endpoint := config.Config("ZOOM_ENDPOINT_URL")
	if endpoint == "" {
		log.Println("⚠️ Video service not configured. Missing ZOOM_ENDPOINT_URL; bookings will use fallback meeting links.")
		Client = nil
		return
	}
	Client = &ZoomService{
		Endpoint: endpoint,
		APIKey:   config.Config("ZOOM_API_KEY"),
	}
	log.Println("✅ Video service initialized successfully.")
}

func (s *ZoomService) CreateMeeting(req MeetingRequest) (*Meeting, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meeting payload: %v", err)
	}

	httpReq, err := http.NewRequest("POST", s.Endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send meeting request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read meeting response body: %v", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Zoom proxy error: Status %d, Body: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("zoom proxy returned status %d", resp.StatusCode)
	}

	var parsed meetingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse meeting response: %v", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("zoom proxy reported failure: %s", parsed.Error)
	}
	if parsed.Meeting.JoinURL == "" {
		return nil, errors.New("meeting response is missing join_url")
	}
	return &parsed.Meeting, nil
}

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]`)

const (
	fallbackIDLength = 10
	fallbackPassword = "yoga"
)

// FallbackMeeting synthesizes deterministic meeting credentials from the
// class name and date, so a booking always ends up with a working join link
// even when the Zoom proxy is down or answers garbage.
func FallbackMeeting(className, date string) Meeting {
	id := nonAlnumRegex.ReplaceAllString(strings.ToLower(className+date), "")
	if len(id) > fallbackIDLength {
		id = id[:fallbackIDLength]
	}
	if id == "" {
		id = "yogaclass"
	}
	return Meeting{
		MeetingID: id,
		Password:  fallbackPassword,
		JoinURL:   "https://meet.jit.si/" + id,
	}
}
