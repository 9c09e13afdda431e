package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/internal/common"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	common.PromCounters[common.LifecycleOutcomeTotal].WithLabelValues("single_mint", "succeeded").Inc()

	srv := NewServer(config.ServerConfigs{Host: "localhost", Port: "9090"})
	require.Equal(t, "localhost:9090", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), common.LifecycleOutcomeTotal)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}
