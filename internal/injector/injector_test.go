package injector

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/artrainer/internal/config"
	"github.com/zeusync/artrainer/internal/core/training"
)

func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Placement.TargetCount = 3
	cfg.Loop.TickRate = time.Millisecond
	cfg.Session.ScanDuration = 0.05
	cfg.Session.ReactionTime = 0.05
	cfg.Session.Accuracy = []bool{true}
	cfg.Session.MaxDuration = 30 * time.Second
	return cfg
}

func TestInitializeAppRunsSession(t *testing.T) {
	cfg := fastConfig()
	a, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	score, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, training.Score{Hits: 3}, score)
	assert.Empty(t, a.Collection.Root().Children())
}

func TestSessionOverWebSocketSolver(t *testing.T) {
	cfg := fastConfig()
	solverd, stop, err := InitializeSolverd(cfg)
	require.NoError(t, err)
	defer stop()
	ts := httptest.NewServer(solverd.Server.Routes())
	defer ts.Close()

	cfg.Solver.Transport = config.TransportWebSocket
	cfg.Solver.Addr = "ws" + strings.TrimPrefix(ts.URL, "http") + "/solver"
	a, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	score, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, score.Total())
}

func TestInitializeAppRejectsBadTransportAddr(t *testing.T) {
	cfg := fastConfig()
	cfg.Solver.Transport = config.TransportQUIC
	cfg.Solver.QUICAddr = "no-port"
	_, _, err := InitializeApp(context.Background(), cfg)
	assert.Error(t, err)
}
