package domain

import "context"

// Transport is the outbound chat collaborator. Edit failures are expected
// (deleted messages, rate limits) and callers must tolerate them.
type Transport interface {
	SendText(chatID int64, text string) (messageID int, err error)
	EditText(chatID int64, messageID int, text string) error
	SendVideo(chatID int64, path string) error
}

// StreamFetcher wraps the external media downloader.
type StreamFetcher interface {
	// FetchProgressive downloads a single pre-muxed audio+video container,
	// constrained to the configured target height. The tool may alter the
	// extension of outputPath; callers resolve the real file afterward.
	FetchProgressive(ctx context.Context, url, outputPath string) error

	// FetchStream downloads one elementary stream matching selector to
	// <outputPrefix>.<ext> and returns the resolved file path.
	FetchStream(ctx context.Context, url, selector, outputPrefix string) (string, error)
}

// StreamMerger wraps the external encoder used to mux elementary streams.
type StreamMerger interface {
	Merge(ctx context.Context, videoPath, audioPath, outputPath string) error
}
