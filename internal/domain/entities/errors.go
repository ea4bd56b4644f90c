package entities

import "errors"

// Pipeline errors. These are the sentinel values the orchestrators branch on;
// the HTTP layer maps them to response envelopes.
var (
	// ErrNoTextExtracted means the extractor produced no usable text from
	// the uploaded document. Fatal for the document pipeline.
	ErrNoTextExtracted = errors.New("no text extracted from document")

	// ErrNoContent means segmentation found zero analyzable units. Fatal
	// for the document pipeline; per-window recoverable for audio.
	ErrNoContent = errors.New("no analyzable content")

	// ErrClassifierUnavailable means the external scoring capability failed
	// (timeout, malformed response, transport error). Always fatal: a
	// systematically failing classifier must abort the batch rather than
	// silently score everything neutral.
	ErrClassifierUnavailable = errors.New("sentiment classifier unavailable")

	// ErrTranscriptionFailed is the per-window speech-to-text failure.
	// Audio-only and non-fatal: the window degrades to an absent-sentiment
	// segment without touching its siblings.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrUndecodableAudio means the audio container itself could not be
	// decoded. Fatal for the audio pipeline.
	ErrUndecodableAudio = errors.New("undecodable audio container")
)
