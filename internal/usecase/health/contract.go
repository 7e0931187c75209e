package health

import "context"

// DBPinger checks menu store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// PhraseChecker checks the remote phrase extractor.
type PhraseChecker interface {
	HealthCheck(ctx context.Context) error
}
