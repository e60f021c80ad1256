package remote

import (
	"context"

	"github.com/fieldops/talktracker/models"
)

// Submitter abstracts the authoritative destination for talk records. The
// sync driver only needs a call that succeeds or fails per record.
type Submitter interface {
	Submit(ctx context.Context, record *models.TalkRecord) error
}

// Prober reports whether the destination is reachable right now.
type Prober interface {
	Online(ctx context.Context) bool
}
