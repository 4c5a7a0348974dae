package main

import (
	"testing"

	"healthlog/internal/backend"
)

func TestRequireSharedBackend(t *testing.T) {
	tests := []struct {
		typ     backend.BackendType
		wantErr bool
	}{
		{backend.SQLiteBackend, false},
		{backend.MemoryBackend, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			err := requireSharedBackend(backend.Config{Type: tt.typ})
			if (err != nil) != tt.wantErr {
				t.Errorf("requireSharedBackend(%s) error = %v, wantErr %v", tt.typ, err, tt.wantErr)
			}
		})
	}
}
