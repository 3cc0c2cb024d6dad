package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckImageUpload(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckImageUpload("banner.png", 1024))
	require.NoError(t, CheckImageUpload("/tmp/photo.jpeg", 5<<20))

	err := CheckImageUpload("notes.pdf", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an image file")

	err = CheckImageUpload("banner.png", 5<<20+1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload limit")
}

func TestCheckRecordingURL(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckRecordingURL("https://zoom.us/rec/download/abc"))
	require.NoError(t, CheckRecordingURL("http://localhost:3000/file"))

	assert.Error(t, CheckRecordingURL("ftp://example.com/file"))
	assert.Error(t, CheckRecordingURL("not a url at all\x7f"))
	assert.Error(t, CheckRecordingURL("/relative/path"))
}
