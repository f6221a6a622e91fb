// Package feed carries sensor readings from publishers to the ingestor.
package feed

import (
	"context"

	"vaxtrack/internal/coldchain/models"
)

// DefaultChannel is the pub/sub channel sensors publish to.
const DefaultChannel = "coldchain:readings"

// Feed is a push subscription of readings. The returned channel closes when
// the subscription ends, either because ctx was cancelled or the transport
// dropped it.
type Feed interface {
	Subscribe(ctx context.Context) (<-chan models.Reading, error)
	Publish(ctx context.Context, r *models.Reading) error
}
