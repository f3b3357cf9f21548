package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnbox/burnbox/internal/model"
)

func sampleDetail() model.MessageDetail {
	return model.MessageDetail{
		Message: model.Message{
			ID:         "42",
			From:       "noreply@service.test",
			Subject:    "Account Verification",
			ReceivedAt: 1700000000,
		},
		Body: "<p>Your code is 123456</p>",
	}
}

func TestEMLContainsHeadersAndBody(t *testing.T) {
	data, err := EML(sampleDetail(), "abc123@temp.test")
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "From: noreply@service.test")
	assert.Contains(t, text, "To: abc123@temp.test")
	assert.Contains(t, text, "Subject: Account Verification")
	assert.Contains(t, text, "Your code is 123456")
}

func TestSaveWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(dir, sampleDetail(), "abc123@temp.test")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "42-account-verification.eml"), path)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFileNameFallback(t *testing.T) {
	detail := sampleDetail()
	detail.Subject = "!!!"
	assert.Equal(t, "42-message.eml", fileName(detail))
}
