package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewObjectKey(t *testing.T) {
	a, b := NewObjectKey(), NewObjectKey()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://bucket.s3.us-west-2.amazonaws.com/abc123", "abc123"},
		{"https://bucket.s3.us-west-2.amazonaws.com/abc123?X-Amz-Signature=sig", "abc123"},
		{"abc123", "abc123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyFromURL(tt.url))
	}
}

func TestPublicURL(t *testing.T) {
	signed := "https://bucket.s3.us-west-2.amazonaws.com/abc123?X-Amz-Signature=sig"
	assert.Equal(t, "https://bucket.s3.us-west-2.amazonaws.com/abc123", PublicURL(signed))
	assert.Equal(t, "https://host/key", PublicURL("https://host/key"))
}
