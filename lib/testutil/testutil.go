package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"squadscraper/lib/rosterstore"
	"squadscraper/lib/telemetry"
	"testing"
)

type ServiceParams struct {
	Name string
	// if false, no roster archive is opened
	Store bool
	// if unspecified, it will use `:memory:`, relative paths are placed in
	// the test's temp dir
	DbPath string
}

type ServiceResult struct {
	Store *rosterstore.Store
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	if !params.Store {
		return ServiceResult{}, cleanup
	}

	dsn := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		dsn = params.DbPath
		if !filepath.IsAbs(dsn) {
			dsn = filepath.Join(t.TempDir(), dsn)
		}
	}
	store, err := rosterstore.Open(context.Background(), dsn)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{Store: &store}, func() {
		store.Close()
		cleanup()
	}
}
