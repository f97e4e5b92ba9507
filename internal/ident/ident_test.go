package ident

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScreamingSnake(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"error", "ERROR"},
		{"backendKind", "BACKEND_KIND"},
		{"poolID", "POOL_ID"},
		{"pool_id", "POOL_ID"},
		{"HTTPStatus", "HTTP_STATUS"},
		{"attempt2", "ATTEMPT2"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.out, ScreamingSnake(tt.in))
		})
	}
}

func TestSnake(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"Error", "error"},
		{"BackendKind", "backend_kind"},
		{"PoolID", "pool_id"},
		{"HTTPStatus", "http_status"},
		{"Attempt2", "attempt2"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.out, Snake(tt.in))
		})
	}
}
