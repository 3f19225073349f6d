// Package token issues the short-lived signed assertions App Store Connect
// requires on every report request.
package token

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the fixed App Store Connect API audience claim.
const Audience = "appstoreconnect-v1"

// Lifetime is how long an issued token stays valid. Apple rejects
// assertions with a longer expiry window.
const Lifetime = 20 * time.Minute

// CredentialError indicates the signing key could not be read or parsed.
type CredentialError struct {
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential %s: %v", e.Path, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// Issuer produces ES256-signed bearer tokens for the reporting API.
// Issue is called fresh for every fetch — tokens are never cached, so the
// expiry window never outlives a retried run.
type Issuer struct {
	keyID          string
	issuerID       string
	privateKeyPath string
}

// New creates an Issuer. The key file is read at Issue time, not here, so a
// rotated key on disk takes effect without reconstructing the Issuer.
func New(keyID, issuerID, privateKeyPath string) *Issuer {
	return &Issuer{
		keyID:          keyID,
		issuerID:       issuerID,
		privateKeyPath: privateKeyPath,
	}
}

// Issue signs a fresh assertion valid for Lifetime from now.
// Returns *CredentialError when the key file is unreadable or malformed.
func (i *Issuer) Issue(now time.Time) (string, error) {
	pem, err := os.ReadFile(i.privateKeyPath)
	if err != nil {
		return "", &CredentialError{Path: i.privateKeyPath, Err: err}
	}

	key, err := jwt.ParseECPrivateKeyFromPEM(pem)
	if err != nil {
		return "", &CredentialError{Path: i.privateKeyPath, Err: err}
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": i.issuerID,
		"aud": Audience,
		"exp": now.Add(Lifetime).Unix(),
	})
	tok.Header["kid"] = i.keyID

	signed, err := tok.SignedString(key)
	if err != nil {
		return "", &CredentialError{Path: i.privateKeyPath, Err: err}
	}
	return signed, nil
}
