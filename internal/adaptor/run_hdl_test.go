package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"transit-booking/internal/dto/response"
	"transit-booking/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRuns struct {
	availability *response.RunAvailability
	err          error
}

func (f *fakeRuns) GetAvailability(ctx context.Context, runID string) (*response.RunAvailability, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.availability, nil
}

func newRunRouter(svc usecase.RunService) http.Handler {
	h := NewRunHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/runs/{id}", h.GetAvailability)
	return r
}

func TestRunHandler_GetAvailability(t *testing.T) {
	svc := &fakeRuns{availability: &response.RunAvailability{
		ID:             "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Code:           "BLR-MAA-0830",
		Fare:           "500.00",
		Capacity:       40,
		AvailableSeats: 12,
	}}

	rec, env := serve(t, newRunRouter(svc), http.MethodGet, "/api/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c8", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var got response.RunAvailability
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 12, got.AvailableSeats)
	assert.Equal(t, "500.00", got.Fare)
}

func TestRunHandler_GetAvailabilityNotFound(t *testing.T) {
	svc := &fakeRuns{err: &usecase.Error{Kind: usecase.KindNotFound, Message: "vehicle run not found"}}

	rec, env := serve(t, newRunRouter(svc), http.MethodGet, "/api/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "vehicle run not found", env.Message)
}
