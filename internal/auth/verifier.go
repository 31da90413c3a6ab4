package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

// Verifier turns a bearer ID token into a reduced Identity.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// TokenCache caches verified identities keyed by token. Lookups and
// stores are best-effort: a cache failure never fails verification.
type TokenCache interface {
	Get(ctx context.Context, idToken string) (*Identity, bool)
	Put(ctx context.Context, idToken string, identity *Identity, ttl time.Duration)
}

// FirebaseVerifier verifies Firebase ID tokens, consulting the cache
// before the Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
	cache  TokenCache
	ttl    time.Duration
}

// NewFirebaseVerifier wraps the Firebase Auth client. cache may be nil.
func NewFirebaseVerifier(client *fbauth.Client, cache TokenCache, ttl time.Duration) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, cache: cache, ttl: ttl}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if v.cache != nil {
		if identity, ok := v.cache.Get(ctx, idToken); ok {
			return identity, nil
		}
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	identity := identityFromToken(token)

	if v.cache != nil {
		ttl := v.ttl
		// A cache entry must never outlive the token itself.
		if exp := time.Until(time.Unix(token.Expires, 0)); exp < ttl {
			ttl = exp
		}
		if ttl > 0 {
			v.cache.Put(ctx, idToken, identity, ttl)
		} else {
			slog.Debug("token too close to expiry to cache", slog.String("uid", identity.UID))
		}
	}

	return identity, nil
}

// identityFromToken maps the decoded token to the reduced Identity
// shape, dropping provider-internal fields.
func identityFromToken(token *fbauth.Token) *Identity {
	identity := &Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	return identity
}
