// Package jwtmint signs access tokens shaped like the hosted auth backend's.
// It backs the liftctl token command and the auth tests.
package jwtmint

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"
)

// Claims are the registered claims the API checks.
type Claims struct {
	Issuer string
	// Audience may be a string or []string.
	Audience any
	Subject  string

	IssuedAt time.Time
	TTL      time.Duration
	// NotBefore is relative to IssuedAt; nil omits the claim.
	NotBefore *time.Duration
}

func (c Claims) payload() map[string]any {
	out := map[string]any{
		"iss":  c.Issuer,
		"aud":  c.Audience,
		"sub":  c.Subject,
		"iat":  c.IssuedAt.Unix(),
		"exp":  c.IssuedAt.Add(c.TTL).Unix(),
		"role": "authenticated",
	}
	if c.NotBefore != nil {
		out["nbf"] = c.IssuedAt.Add(*c.NotBefore).Unix()
	}
	return out
}

// HS256 signs c with a shared secret.
func HS256(secret []byte, c Claims) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("empty signing secret")
	}
	signingInput, err := encode(map[string]any{"alg": "HS256", "typ": "JWT"}, c.payload())
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signingInput))
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

type Keypair struct {
	Kid     string
	Private *rsa.PrivateKey
}

func GenerateRSAKeypair(kid string) (Keypair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Kid: kid, Private: priv}, nil
}

// RS256 signs c with kp; the kid header names the key in the published key set.
func RS256(kp Keypair, c Claims) (string, error) {
	signingInput, err := encode(map[string]any{"alg": "RS256", "typ": "JWT", "kid": kp.Kid}, c.payload())
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, kp.Private, crypto.SHA256, sum[:])
	if err != nil {
		return "", err
	}
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// NewKeySetServer serves a JWKS document whose keys can be replaced at runtime.
func NewKeySetServer() (*httptest.Server, func(keys ...Keypair)) {
	var doc atomic.Value // []byte
	doc.Store([]byte(`{"keys":[]}`))

	setKeys := func(keys ...Keypair) {
		type jwk struct {
			Kty string `json:"kty"`
			Use string `json:"use"`
			Alg string `json:"alg"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		}
		set := struct {
			Keys []jwk `json:"keys"`
		}{Keys: make([]jwk, 0, len(keys))}
		for _, kp := range keys {
			pub := kp.Private.PublicKey
			set.Keys = append(set.Keys, jwk{
				Kty: "RSA",
				Use: "sig",
				Alg: "RS256",
				Kid: kp.Kid,
				N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			})
		}
		b, _ := json.Marshal(set)
		doc.Store(b)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc.Load().([]byte))
	}))
	return srv, setKeys
}

func encode(header, claims map[string]any) (string, error) {
	hb, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	cb, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(hb) + "." + enc.EncodeToString(cb), nil
}
