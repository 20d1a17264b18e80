package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/entity"
	"veo-story-studio/internal/domain/repository"
	apperrors "veo-story-studio/pkg/errors"
)

func newTestClient(t *testing.T, h http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&config.RemoteConfig{
		BaseURL:       srv.URL + "/api/",
		Timeout:       time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, repository.TokenSourceFunc(func(context.Context) string { return token }))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestProjectClient_CRUD(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, 200, []entity.ProjectSummary{{ID: "p1", Name: "Pilot"}})
	})
	mux.HandleFunc("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, entity.Project{ID: r.PathValue("id"), Name: "Pilot", Data: &entity.StoryData{
			Scenes: []entity.Scene{{ID: "s1", Title: "Opening"}},
		}})
	})
	mux.HandleFunc("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Pilot", body["name"])
		assert.Contains(t, body, "data")
		writeJSON(w, 201, entity.Project{ID: "p2", Name: "Pilot"})
	})
	mux.HandleFunc("PUT /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "data")
		assert.NotContains(t, body, "name")
		writeJSON(w, 200, entity.Project{ID: r.PathValue("id")})
	})
	mux.HandleFunc("DELETE /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"message": "deleted"})
	})

	c := NewProjectClient(newTestClient(t, mux, "tok"))
	ctx := context.Background()

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pilot", list[0].Name)

	p, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p.Data)
	assert.Equal(t, "Opening", p.Data.Scenes[0].Title)

	created, err := c.Create(ctx, "Pilot", "", entity.EmptyStoryData())
	require.NoError(t, err)
	assert.Equal(t, "p2", created.ID)

	data := entity.EmptyStoryData()
	_, err = c.Update(ctx, "p1", entity.ProjectUpdate{Data: &data})
	require.NoError(t, err)

	assert.NoError(t, c.Delete(ctx, "p1"))
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]any{"message": "otp sent"})
	})
	c := NewAuthClient(newTestClient(t, h, ""))

	out, err := c.Signup(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "otp sent", out["message"])
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		code    apperrors.ErrorCode
		message string
	}{
		{"remote message", 400, map[string]string{"error": "Invalid credentials"}, apperrors.CodeRemoteError, "Invalid credentials"},
		{"fallback message", 400, map[string]string{}, apperrors.CodeRemoteError, "Something went wrong"},
		{"not json", 400, nil, apperrors.CodeRemoteError, "Something went wrong"},
		{"unauthorized", 401, map[string]string{"error": "Invalid token"}, apperrors.CodeUnauthorized, "Invalid token"},
		{"not found", 404, map[string]string{"error": "Project not found"}, apperrors.CodeNotFound, "Project not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("<html>bad gateway</html>"))
					return
				}
				writeJSON(w, tt.status, tt.body)
			})
			c := NewAuthClient(newTestClient(t, h, ""))

			_, err := c.Login(context.Background(), "a@b.c", "pw")
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestClient_RetriesIdempotentOn5xx(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, 503, map[string]string{"error": "busy"})
			return
		}
		writeJSON(w, 200, []entity.ProjectSummary{})
	})
	c := NewProjectClient(newTestClient(t, h, ""))

	list, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetry4xxOrPost(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method == http.MethodPost {
			writeJSON(w, 500, map[string]string{"error": "boom"})
			return
		}
		writeJSON(w, 404, map[string]string{"error": "Project not found"})
	})
	c := NewProjectClient(newTestClient(t, h, ""))
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	_, err = c.Create(ctx, "x", "", entity.EmptyStoryData())
	assert.Error(t, err)
	assert.Equal(t, "boom", apperrors.AsAppError(err).Message)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ExpiredTokenRejectedLocally(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 200, []entity.ProjectSummary{})
	})

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	c := NewProjectClient(newTestClient(t, h, expired))
	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	assert.Zero(t, calls.Load())

	valid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	c = NewProjectClient(newTestClient(t, h, valid))
	_, err = c.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
		writeJSON(w, 200, map[string]any{})
	})
	c := newTestClient(t, h, "")
	c.timeout = 20 * time.Millisecond
	c.attempts = 1

	_, err := NewProjectClient(c).Get(context.Background(), "p1")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRemoteError, apperrors.AsAppError(err).Code)
}

func TestGenerationClient_UnwrapsEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate-story", func(w http.ResponseWriter, r *http.Request) {
		var req entity.GenerationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "A heist", req.StoryIdea)
		writeJSON(w, 200, map[string]any{"data": entity.StoryData{
			Characters: []entity.Character{{ID: "c1", Name: "Ravi"}},
		}})
	})
	mux.HandleFunc("POST /api/agents/generate-story-enhanced", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"data": map[string]any{
			"story":       entity.StoryData{Scenes: []entity.Scene{{ID: "s1"}}},
			"enhancement": map[string]any{"approved": true, "iterations": 2},
		}})
	})
	mux.HandleFunc("POST /api/agents/enhance-existing-story", func(w http.ResponseWriter, r *http.Request) {
		var req entity.EnhanceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, 200, map[string]any{"data": map[string]any{"story": req.Story}})
	})

	c := NewGenerationClient(newTestClient(t, mux, ""))
	ctx := context.Background()

	res, err := c.Generate(ctx, entity.GenerationRequest{StoryIdea: "A heist"})
	require.NoError(t, err)
	require.Len(t, res.Story.Characters, 1)
	assert.Nil(t, res.Enhancement)

	res, err = c.GenerateEnhanced(ctx, entity.GenerationRequest{StoryIdea: "A heist"})
	require.NoError(t, err)
	require.NotNil(t, res.Enhancement)
	assert.True(t, res.Enhancement.Approved)
	assert.Equal(t, 2, res.Enhancement.Iterations)

	res, err = c.EnhanceExisting(ctx, entity.EnhanceRequest{Story: entity.StoryData{Scenes: []entity.Scene{{ID: "s9"}}}})
	require.NoError(t, err)
	assert.Equal(t, "s9", res.Story.Scenes[0].ID)
}

func TestPaymentClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/payment/create-order", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"data": map[string]any{"orderId": "order_1", "amount": 19900}})
	})
	mux.HandleFunc("POST /api/payment/verify", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"data": map[string]any{"tokens": 215}})
	})
	mux.HandleFunc("POST /api/payment/deduct", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 20, body["tokens"])
		writeJSON(w, 200, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/payment/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"data": []map[string]any{{"tokens": 200}}})
	})

	c := NewPaymentClient(newTestClient(t, mux, ""))
	ctx := context.Background()

	order, err := c.CreateOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order_1", order["orderId"])

	verified, err := c.Verify(ctx, map[string]any{"razorpay_order_id": "order_1"})
	require.NoError(t, err)
	assert.Equal(t, float64(215), verified["tokens"])

	_, err = c.Deduct(ctx, 20)
	require.NoError(t, err)

	history, err := c.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
