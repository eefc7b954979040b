package mapbridge

// Config holds configuration for the renderer bridge.
type Config struct {
	// RequestBuffer is the number of queued map requests kept before the
	// oldest is dropped.
	RequestBuffer int `mapstructure:"request_buffer" default:"256"`
}
