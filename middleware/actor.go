package middleware

import (
	"net/http"
	"strings"

	"github.com/fieldops/talktracker/userctx"
)

// ActorHeader carries the acting user's identity, supplied by the
// authentication collaborator in front of this service.
const ActorHeader = "X-Actor-Email"

// Actor extracts the acting user from the request header into the context.
// Requests without it proceed as "anonymous"; audit entries still record
// the actor field either way.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(ActorHeader))
		if actor != "" {
			r = r.WithContext(userctx.SetActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}
