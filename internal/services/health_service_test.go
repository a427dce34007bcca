package services

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalogdash/pkg/contracts"
)

type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	return m.Called().Int(0)
}

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func TestHealthService(t *testing.T) {
	hub := &MockClientCounter{}
	hub.On("ClientCount").Return(3)
	hs := NewHealthService(fixedCounter(2), hub, quietLogger())
	ctx := context.Background()

	t.Run("health", func(t *testing.T) {
		st := hs.HealthCheck(ctx)
		assert.Equal(t, "ok", st.Status)
		assert.Equal(t, contracts.Version, st.Version)
	})

	t.Run("readiness", func(t *testing.T) {
		st := hs.ReadinessCheck(ctx)
		assert.Equal(t, "ready", st.Status)
		assert.Equal(t, "2 datasets stored", st.Services["datasets"].Message)
		assert.Equal(t, "3 clients connected", st.Services["websocket"].Message)
		hub.AssertExpectations(t)
	})

	t.Run("liveness", func(t *testing.T) {
		st := hs.LivenessCheck(ctx)
		assert.Equal(t, "alive", st.Status)
		assert.Equal(t, runtime.Version(), st.Runtime["go_version"])
	})

	t.Run("version", func(t *testing.T) {
		v := hs.Version()
		assert.Equal(t, contracts.Version, v.Version)
		assert.Equal(t, contracts.APIVersion, v.APIVersion)
		assert.GreaterOrEqual(t, v.UptimeSeconds, 0.0)
	})
}

func TestHealthServiceNotReadyWithoutStore(t *testing.T) {
	hs := NewHealthService(nil, nil, quietLogger())

	st := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", st.Status)
	assert.Equal(t, "not_ready", st.Services["datasets"].Status)
	assert.Equal(t, "ready", st.Services["websocket"].Status)
}
