package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jwebster45206/token-hud/pkg/storage"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))

	tests := []struct {
		name            string
		storageErr      error
		busErr          error
		expectedStatus  int
		expectedHealth  string
		expectedStorage string
		expectedBus     string
	}{
		{
			name:            "all healthy",
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
			expectedBus:     "healthy",
		},
		{
			name:            "unhealthy storage",
			storageErr:      errors.New("connection failed"),
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "unhealthy",
			expectedBus:     "healthy",
		},
		{
			name:            "unhealthy bus",
			busErr:          errors.New("connection failed"),
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "healthy",
			expectedBus:     "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMockStorage()
			store.SetPingError(tt.storageErr)
			bus := storage.NewMockStorage()
			bus.SetPingError(tt.busErr)

			handler := NewHealthHandler("bamboo-grove",
				map[string]Pinger{"storage": store, "bus": bus},
				func() int { return 3 },
				logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
			}

			var response HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if response.Status != tt.expectedHealth {
				t.Errorf("Expected status '%s', got '%s'", tt.expectedHealth, response.Status)
			}
			if response.Service != "token-hud" {
				t.Errorf("Expected service 'token-hud', got '%s'", response.Service)
			}
			if response.SceneID != "bamboo-grove" {
				t.Errorf("Expected scene 'bamboo-grove', got '%s'", response.SceneID)
			}
			if response.Cards != 3 {
				t.Errorf("Expected 3 cards, got %d", response.Cards)
			}
			if got := response.Components["storage"]; got != tt.expectedStorage {
				t.Errorf("Expected storage status '%s', got '%s'", tt.expectedStorage, got)
			}
			if got := response.Components["bus"]; got != tt.expectedBus {
				t.Errorf("Expected bus status '%s', got '%s'", tt.expectedBus, got)
			}
		})
	}
}
