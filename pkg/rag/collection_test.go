package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionName(t *testing.T) {
	tests := []struct {
		name       string
		notebookId string
		want       string
	}{
		{
			name:       "uuid hyphens replaced",
			notebookId: "550e8400-e29b-41d4-a716-446655440000",
			want:       "notebook_550e8400_e29b_41d4_a716_446655440000",
		},
		{
			name:       "no hyphens unchanged",
			notebookId: "abc123",
			want:       "notebook_abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollectionName(tt.notebookId))
		})
	}
}

func TestCollectionNameDeterministic(t *testing.T) {
	id := "550e8400-e29b-41d4-a716-446655440000"
	assert.Equal(t, CollectionName(id), CollectionName(id))
}
