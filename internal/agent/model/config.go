package model

// ================ Config ================
type AnalysisModelConfig struct {
	Model       string  `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-flash"`
	Temperature float32 `envconfig:"ANALYSIS_TEMPERATURE" default:"0.2"`
	MaxRetries  int     `envconfig:"ANALYSIS_MAX_RETRIES" default:"3"`
	// Grounding attaches the Google Search tool so answers carry citations.
	Grounding bool `envconfig:"ANALYSIS_GROUNDING" default:"true"`
}

type SpeechModelConfig struct {
	Model    string `envconfig:"TTS_MODEL" default:"gemini-2.5-flash-preview-tts"`
	MaxChars int    `envconfig:"TTS_MAX_CHARS" default:"1200"`
}

type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.4"`
	MaxTurns    int     `envconfig:"CHAT_MAX_TURNS" default:"20"`
}

type HistoryConfig struct {
	Key      string `envconfig:"HISTORY_KEY" default:"leafdoc:history"`
	MaxItems int    `envconfig:"HISTORY_MAX_ITEMS" default:"50"`
	TTL      string `envconfig:"HISTORY_TTL" default:"0s"`
}

type LocationConfig struct {
	// Latitude/Longitude are strings so "unset" is distinguishable from 0,0.
	Latitude  string `envconfig:"LOCATION_LATITUDE"`
	Longitude string `envconfig:"LOCATION_LONGITUDE"`
	Timeout   string `envconfig:"LOCATION_TIMEOUT" default:"3s"`
}
