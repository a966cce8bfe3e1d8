package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresKV(t *testing.T) {
	url := os.Getenv("STOREFRONT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("STOREFRONT_TEST_DATABASE_URL not set")
	}
	kv, err := OpenPostgres(context.Background(), url)
	require.NoError(t, err)
	defer kv.Close()

	runKVContract(t, kv)
}
