package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"djanselme/internal/status"
	"djanselme/models"
)

func TestResolveEmbedURL_IframeSrcWinsOverPlatform(t *testing.T) {
	input := `<iframe scrolling="no" id="hearthis_at_track" src="https://app.hearthis.at/embed/12807924/transparent_black/" frameborder="0"></iframe>`

	got, err := ResolveEmbedURL(input, models.PlatformHearthis)

	require.NoError(t, err)
	assert.Equal(t, "https://app.hearthis.at/embed/12807924/transparent_black/", got)
}

func TestResolveEmbedURL_IframeWithoutSrc(t *testing.T) {
	_, err := ResolveEmbedURL("<iframe></iframe>", models.PlatformYoutube)
	assert.ErrorIs(t, err, status.ErrUnresolvable)
}

func TestResolveEmbedURL_HearthisEmbedURLStripsQuery(t *testing.T) {
	got, err := ResolveEmbedURL(
		"https://app.hearthis.at/embed/12807924/transparent_black/?hcolor=&color=&style=2",
		models.PlatformHearthis,
	)

	require.NoError(t, err)
	assert.Equal(t, "https://app.hearthis.at/embed/12807924/transparent_black/", got)
}

func TestResolveEmbedURL_HearthisPublicPageUnresolvable(t *testing.T) {
	// the track id cannot be derived from the public page
	_, err := ResolveEmbedURL("https://hearthis.at/dj-anselme/summer-mix-2024/", models.PlatformHearthis)
	assert.ErrorIs(t, err, status.ErrUnresolvable)
}

func TestResolveEmbedURL_YoutubeWatchURL(t *testing.T) {
	got, err := ResolveEmbedURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ", models.PlatformYoutube)

	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", got)
}

func TestResolveEmbedURL_YoutubeShortURL(t *testing.T) {
	got, err := ResolveEmbedURL("https://youtu.be/dQw4w9WgXcQ", models.PlatformYoutube)

	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", got)
}

func TestResolveEmbedURL_YoutubeEmbedIdempotent(t *testing.T) {
	canonical := "https://www.youtube.com/embed/dQw4w9WgXcQ"

	once, err := ResolveEmbedURL(canonical, models.PlatformYoutube)
	require.NoError(t, err)

	twice, err := ResolveEmbedURL(once, models.PlatformYoutube)
	require.NoError(t, err)
	assert.Equal(t, canonical, twice)
}

func TestResolveEmbedURL_MixcloudPublicURL(t *testing.T) {
	got, err := ResolveEmbedURL("https://www.mixcloud.com/dj-anselme/wedding-set/", models.PlatformMixcloud)

	require.NoError(t, err)
	assert.Equal(t, "https://www.mixcloud.com/widget/iframe/?hide_cover=1&feed=%2Fdj-anselme%2Fwedding-set%2F", got)
	assert.True(t, IsValidEmbedURL(got, models.PlatformMixcloud))
}

func TestResolveEmbedURL_MixcloudWidgetTruncated(t *testing.T) {
	got, err := ResolveEmbedURL(
		"https://www.mixcloud.com/widget/iframe/?hide_cover=1&feed=%2Fdj-anselme%2Fset%2F",
		models.PlatformMixcloud,
	)

	require.NoError(t, err)
	assert.Equal(t, "https://www.mixcloud.com/widget/iframe/?hide_cover=1", got)
}

func TestResolveEmbedURL_WrongPlatformInput(t *testing.T) {
	_, err := ResolveEmbedURL("https://www.youtube.com/watch?v=abc123", models.PlatformHearthis)
	assert.ErrorIs(t, err, status.ErrUnresolvable)
}

func TestResolveEmbedURL_UnknownPlatform(t *testing.T) {
	_, err := ResolveEmbedURL("https://example.com/x", models.Platform("soundcloud"))
	assert.ErrorIs(t, err, status.ErrUnresolvable)
}

func TestIsValidEmbedURL(t *testing.T) {
	assert.True(t, IsValidEmbedURL("https://app.hearthis.at/embed/123/", models.PlatformHearthis))
	assert.False(t, IsValidEmbedURL("https://hearthis.at/user/track/", models.PlatformHearthis))

	assert.True(t, IsValidEmbedURL("https://www.youtube.com/embed/abc", models.PlatformYoutube))
	assert.False(t, IsValidEmbedURL("https://www.youtube.com/watch?v=abc", models.PlatformYoutube))

	assert.True(t, IsValidEmbedURL("https://www.mixcloud.com/widget/iframe/?feed=x", models.PlatformMixcloud))
	assert.False(t, IsValidEmbedURL("https://www.mixcloud.com/user/mix/", models.PlatformMixcloud))

	assert.False(t, IsValidEmbedURL("https://www.youtube.com/embed/abc", models.Platform("soundcloud")))
}
