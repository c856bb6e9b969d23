package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_InvalidConnString(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), "://not-a-conn-string")
	require.Error(t, err)
	require.Contains(t, err.Error(), "db: parse config")
}
