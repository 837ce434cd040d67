package domain

import "regexp"

// videoLinkPattern matches the video-sharing URL shapes the bot responds to.
// The match ends at the first whitespace so query parameters survive intact.
var videoLinkPattern = regexp.MustCompile(`https?://(?:www\.|m\.)?(?:youtube\.com/(?:watch\?[^\s]+|shorts/[^\s]+)|youtu\.be/[^\s]+)`)

// ExtractVideoURL returns the first qualifying video link in a message text,
// or the empty string when the message contains none.
func ExtractVideoURL(text string) string {
	return videoLinkPattern.FindString(text)
}
