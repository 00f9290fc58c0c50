package ports

import (
	"context"
	"time"

	"github.com/strivezine/blog-system/internal/core/domain"
)

// OAuthProfile is the verified identity assertion returned by a provider.
type OAuthProfile struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
}

// OAuthProvider drives the authorization-code flow of one identity provider.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	// Exchange trades the authorization code for the user's profile.
	Exchange(ctx context.Context, code string) (*OAuthProfile, error)
}

// OAuthState is stored between the redirect to the provider and the callback.
// LinkAuthorID is set when a signed-in author started the flow to link the
// provider identity to their account.
type OAuthState struct {
	LinkAuthorID string `json:"link_author_id,omitempty"`
}

// OAuthStateStore keeps single-use state values.
type OAuthStateStore interface {
	Save(ctx context.Context, state string, data OAuthState, ttl time.Duration) error
	// Consume returns and deletes the state, or domain.ErrOAuthState.
	Consume(ctx context.Context, state string) (*OAuthState, error)
}

// OAuthResult is the outcome of a completed callback.
type OAuthResult struct {
	Token   string
	Author  *domain.Author
	Created bool
	Linked  bool
}

// OAuthService bridges provider identities to local authors.
type OAuthService interface {
	BeginLogin(ctx context.Context) (string, error)
	BeginLink(ctx context.Context, authorID string) (string, error)
	Complete(ctx context.Context, state, code string) (*OAuthResult, error)
}
