// Package wellknown serves the public key discovery endpoints. Verifier
// services fetch the active key here instead of shipping it in their own
// configuration.
package wellknown

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strikerhq/striker-auth/pkg/keyring"
)

// KeySource is the read-only view of the signing key material the discovery
// endpoints publish.
type KeySource interface {
	PublicKeyBase64() (string, error)
	JWKS() keyring.JWKS
}

// Router serves /public-key and /jwks.json; mount it at /.well-known.
func Router(keys KeySource) chi.Router {
	r := chi.NewRouter()
	r.Get("/public-key", publicKey(keys))
	r.Get("/jwks.json", jwks(keys))
	return r
}

// publicKey serves the base64 X.509 DER of the verification key as plain
// text, the format legacy verifiers paste straight into their config.
func publicKey(keys KeySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b64, err := keys.PublicKeyBase64()
		if err != nil {
			http.Error(w, "key unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(b64))
	}
}

func jwks(keys KeySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(keys.JWKS())
	}
}
