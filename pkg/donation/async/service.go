package async

import (
	"context"
	"time"
)

// Service is a background process polling on a fixed interval until its
// context is cancelled
type Service interface {
	Start(ctx context.Context, interval time.Duration) error
}
