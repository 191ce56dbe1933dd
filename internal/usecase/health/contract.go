package health

import "context"

// StoragePinger checks submission storage availability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}
