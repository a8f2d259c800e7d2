package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyPlaylist)

	_, err = Parse([]byte("\n\r\n  "))
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
}

func TestParse_MissingHeader(t *testing.T) {
	_, err := Parse([]byte("#EXTINF:-1,Channel\nhttp://example.com/live/1\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestParse_PairsRecords(t *testing.T) {
	data := "#EXTM3U\r\n" +
		"#EXTINF:-1 tvg-id=\"a\",Channel A\r\n" +
		"http://example.com/live/a\r\n" +
		"\r\n" +
		"#EXTINF:-1 tvg-id=\"b\",Channel B\r\n" +
		"#EXTVLCOPT:http-user-agent=VLC\r\n" +
		"http://example.com/live/b\r\n"

	doc, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 2, doc.Len())

	assert.Equal(t, `#EXTINF:-1 tvg-id="a",Channel A`, doc.Records[0].Attributes)
	assert.Equal(t, "http://example.com/live/a", doc.Records[0].URL)
	assert.Equal(t, "http://example.com/live/b", doc.Records[1].URL)
}

func TestParse_HeaderWithAttributes(t *testing.T) {
	data := "\ufeff#EXTM3U url-tvg=\"http://example.com/epg.xml\"\n#EXTINF:-1,A\nhttp://example.com/a\n"

	doc, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())
}

func TestParse_TrailingEntryWithoutURL(t *testing.T) {
	data := "#EXTM3U\n#EXTINF:-1,A\nhttp://example.com/a\n#EXTINF:-1,B\n"

	doc, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, "", doc.Records[1].URL)
}

func TestParse_HeaderOnly(t *testing.T) {
	doc, err := Parse([]byte("#EXTM3U\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
}
