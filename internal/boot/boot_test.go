package boot

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rushilchauhan45/sitely/internal/store"
	"github.com/Rushilchauhan45/sitely/internal/testutil"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) Config {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Clock:  testutil.NewFixedClock(testNow),
		Logger: log,
	}
}

func TestInit_ConcurrentCallersShareOneRun(t *testing.T) {
	init := New(testConfig(t))

	const callers = 8
	stores := make([]*store.Store, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i], errs[i] = init.Init(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, stores[0], stores[i], "caller %d got a different handle", i)
	}
	t.Cleanup(func() { stores[0].Close() })
}

func TestInit_MigratesThenSweeps(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	// A legacy wage older than the retention horizon must be migrated in
	// and then swept out during the same startup.
	expired := testNow.AddDate(-4, 0, 0).Format("2006-01-02")
	blob := map[string]string{
		"sites":   `[{"id":"site-1","siteName":"Bungalow","siteType":"residential","startDate":"2020-01-10","isRunning":true}]`,
		"workers": `[{"id":"worker-1","siteId":"site-1","workerName":"Ramesh","category":"Skilled","joiningDate":"2020-01-12"}]`,
		"wage":    `[{"id":"wage-1","siteId":"site-1","workerId":"worker-1","workerName":"Ramesh","category":"Skilled","amount":500,"date":"` + expired + `"}]`,
	}
	data, err := json.Marshal(blob)
	require.NoError(t, err)
	cfg.LegacyPath = filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(cfg.LegacyPath, data, 0o644))

	s, err := New(cfg).Init(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	sites, err := s.ListSites(ctx, "")
	require.NoError(t, err)
	assert.Len(t, sites, 1)

	wages, err := s.ListWageRecords(ctx, "site-1")
	require.NoError(t, err)
	assert.Empty(t, wages, "expired migrated wage should be swept at startup")

	flag, _, err := s.GetSetting(ctx, store.SettingLegacyMigrated)
	require.NoError(t, err)
	assert.Equal(t, "1", flag)
}

func TestInit_FailureMemoized(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = filepath.Join(cfg.DBPath, "not-a-dir", "test.db")
	init := New(cfg)

	_, err1 := init.Init(context.Background())
	require.Error(t, err1)

	_, err2 := init.Init(context.Background())
	assert.Same(t, err1, err2, "second Init should return the memoized failure without retrying")
}
