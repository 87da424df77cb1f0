package transcription

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path" validate:"required"`
	// Language is the expected language (e.g. "en"). Empty or "auto" means detect.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's configured model.
	Model string `json:"model,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the backend's own full transcription text. The timeline
	// re-derives text from segments and never uses this as a source of truth.
	Text string `json:"text,omitempty"`
	// Segments are the coarse, approximately timed segments.
	Segments []Segment `json:"segments"`
	// Duration is the total audio duration in seconds, 0 if unknown.
	Duration float64 `json:"duration,omitempty" validate:"gte=0"`
	// Language is the detected or declared language code.
	Language string `json:"language,omitempty"`
}

// Segment is one coarse span of transcribed speech.
type Segment struct {
	// Start is the approximate segment start time in seconds.
	Start float64 `json:"start"`
	// End is the approximate segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Silence marks an intentional no-speech segment that may carry empty text.
	Silence bool `json:"silence,omitempty"`
}
