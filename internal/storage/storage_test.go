package storage_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/memegrid/memegrid/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{
			name:        "png within limit",
			contentType: "image/png",
			size:        1024,
		},
		{
			name:        "jpeg at exact limit",
			contentType: "image/jpeg",
			size:        storage.MaxImageSize,
		},
		{
			name:        "gif accepted",
			contentType: "image/gif",
			size:        2048,
		},
		{
			name:        "webp accepted",
			contentType: "image/webp",
			size:        2048,
		},
		{
			name:        "over size limit",
			contentType: "image/png",
			size:        storage.MaxImageSize + 1,
			wantErr:     storage.ErrImageTooLarge,
		},
		{
			name:        "unsupported type",
			contentType: "application/pdf",
			size:        1024,
			wantErr:     storage.ErrInvalidImageType,
		},
		{
			name:        "svg rejected",
			contentType: "image/svg+xml",
			size:        1024,
			wantErr:     storage.ErrInvalidImageType,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := storage.ValidateImage(tt.contentType, tt.size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	now := time.Unix(1700000000, 42)

	key := storage.ObjectKey(userID, "image/png", now)

	assert.Equal(t, "memes/11111111-2222-3333-4444-555555555555-1700000000000000042.png", key)
	assert.True(t, len(key) > len("memes/"))
}
