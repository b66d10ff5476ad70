package httpclient

import "time"

const (
	descriptionRetryInitialInterval = 200 * time.Millisecond
	descriptionRetryMaxInterval     = 5 * time.Second
	descriptionRetryMaxElapsed      = 15 * time.Second
)
