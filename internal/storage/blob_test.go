package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	a := objectName(KindVideo, "Holiday.MP4")
	b := objectName(KindVideo, "Holiday.MP4")

	assert.True(t, strings.HasPrefix(a, "videos/"))
	assert.True(t, strings.HasSuffix(a, ".mp4"))
	assert.NotEqual(t, a, b)

	assert.True(t, strings.HasPrefix(objectName(KindImage, "thumb"), "images/"))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/vidtube.appspot.com/images/x.png",
		publicURL("vidtube.appspot.com", "images/x.png"),
	)
}
