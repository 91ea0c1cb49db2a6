package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleIdentity is the slice of a verified Google identity the board
// cares about: enough to find or provision a local account.
type GoogleIdentity struct {
	Email string
	Name  string
}

// googleCertsURL serves Google's current token-signing keys as a JWK set.
// The keys rotate roughly daily, so the verifier caches and refetches.
const googleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

// certsTTL bounds how long a fetched key set is trusted before refetching.
const certsTTL = time.Hour

// GoogleVerifier validates Google ID tokens.
//
// ID TOKEN VERIFICATION:
// The token the browser obtains from Google Sign-In is itself a JWT, signed
// with one of Google's rotating RSA keys (RS256). Verifying it means:
//  1. Fetch Google's public keys (JWKS) and pick the one matching the
//     token's "kid" header
//  2. Check the RSA signature and expiry
//  3. Check "aud" equals our OAuth client ID — a valid Google token minted
//     for some OTHER app must not log anyone in here
//  4. Check "iss" is accounts.google.com (with or without the https scheme;
//     Google has used both)
//
// Only then are the embedded email and name trusted.
type GoogleVerifier struct {
	clientID   string
	httpClient *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey // keyed by kid
	fetchedAt time.Time
}

// NewGoogleVerifier creates a verifier for ID tokens issued to clientID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// googleClaims is the subset of the ID token payload we read.
type googleClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verify checks an ID token and returns the identity it asserts.
// All failures surface as a generic error — the handler maps them to a
// plain 400/500; there is nothing actionable to tell the caller.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	claims := &googleClaims{}

	_, err := jwt.ParseWithClaims(
		idToken,
		claims,
		func(token *jwt.Token) (any, error) {
			kid, _ := token.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("auth/google: token has no kid header")
			}
			return v.signingKey(ctx, kid)
		},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("auth/google: verifying id token: %w", err)
	}

	// Google has issued tokens with both issuer spellings over the years.
	if claims.Issuer != "accounts.google.com" && claims.Issuer != "https://accounts.google.com" {
		return nil, fmt.Errorf("auth/google: unexpected issuer %q", claims.Issuer)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("auth/google: id token carries no email")
	}

	return &GoogleIdentity{Email: claims.Email, Name: claims.Name}, nil
}

// signingKey returns the RSA public key for kid, refetching the JWK set
// when the cache is stale or the kid is unknown (key rotation).
func (v *GoogleVerifier) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if key, ok := v.keys[kid]; ok && time.Since(v.fetchedAt) < certsTTL {
		return key, nil
	}

	keys, err := v.fetchCerts(ctx)
	if err != nil {
		return nil, err
	}
	v.keys = keys
	v.fetchedAt = time.Now()

	key, ok := v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("auth/google: no certificate for kid %q", kid)
	}
	return key, nil
}

// jwk is one entry of the JWK set; n and e are base64url-encoded big-endian
// integers forming the RSA public key.
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (v *GoogleVerifier) fetchCerts(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleCertsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth/google: building certs request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth/google: fetching certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth/google: certs endpoint returned %s", resp.Status)
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("auth/google: decoding certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("auth/google: decoding modulus for kid %q: %w", k.Kid, err)
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("auth/google: decoding exponent for kid %q: %w", k.Kid, err)
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("auth/google: certs endpoint returned no RSA keys")
	}

	return keys, nil
}

// GoogleProvider wraps golang.org/x/oauth2 for the server-side
// authorization-code flow — the browser-redirect alternative to posting an
// ID token. The exchange happens server-to-server with the client secret,
// so the access token never touches the browser.
type GoogleProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewGoogleProvider creates a provider with the given OAuth app
// credentials. callbackURL must exactly match one of the authorized
// redirect URIs registered in the Google Cloud console.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthURL returns the Google authorization page URL for the given CSRF
// state. The caller stores state in a short-lived cookie and checks it on
// callback.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback's authorization code for the user's Google
// profile via the userinfo endpoint.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth/google: exchanging code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("auth/google: fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth/google: userinfo returned %s", resp.Status)
	}

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("auth/google: decoding userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("auth/google: userinfo carries no email")
	}

	return &GoogleIdentity{Email: info.Email, Name: info.Name}, nil
}
