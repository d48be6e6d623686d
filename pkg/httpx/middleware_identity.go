package httpx

import (
	"net/http"
	"strings"

	"github.com/merchkit/checkout/pkg/jwtx"
	"github.com/merchkit/checkout/pkg/slogx"
)

// AnonymousIDHeader lets guest shoppers assert their client-generated
// anonymous id on requests that carry no bearer token.
const AnonymousIDHeader = "X-Anonymous-Id"

// maxAnonymousIDLen bounds header-asserted ids so they can't be abused
// as a storage or log-stuffing channel.
const maxAnonymousIDLen = 128

// IdentityMiddleware resolves the shopper identity for a request and
// injects it into the context.
//
// Registered customers present a Bearer token from the merchant's identity
// provider; the token subject becomes the customer id. Guest shoppers
// either present a provider-issued token carrying an anonymous_id claim or
// assert their own id via the X-Anonymous-Id header. Requests that resolve
// to no identity at all are rejected, since every checkout operation is
// performed on behalf of some shopper.
func IdentityMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if authz := r.Header.Get("Authorization"); authz != "" {
				if !strings.HasPrefix(authz, "Bearer ") {
					writeBearerError(w, "unsupported authorization scheme")
					return
				}
				if v == nil {
					writeBearerError(w, "bearer authentication is not configured")
					return
				}
				raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

				claims, err := v.Verify(raw)
				if err != nil {
					writeBearerError(w, "token verification failed")
					log.Warn("jwt verify failed", "err", err)
					return
				}

				id := Identity{CustomerID: claims.Subject, AnonymousID: claims.AnonymousID}
				if id.IsZero() || (id.IsCustomer() && id.IsAnonymous()) {
					writeBearerError(w, "token carries no usable shopper identity")
					return
				}

				next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
				return
			}

			if anon := strings.TrimSpace(r.Header.Get(AnonymousIDHeader)); anon != "" {
				if len(anon) > maxAnonymousIDLen {
					writeBearerError(w, "anonymous id too long")
					return
				}
				id := Identity{AnonymousID: anon}
				next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
				return
			}

			writeBearerError(w, "missing shopper credentials")
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
