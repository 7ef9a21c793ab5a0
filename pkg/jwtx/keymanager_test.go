package jwtx_test

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewKeyManager(t *testing.T) {
	privKey, privPEM := generatePKCS1(t)

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		PrivateKeyPEM: privPEM,
		Issuer:        exampleIssuer,
	})
	require.NoError(t, err)
	require.True(t, km.IsReady())
	require.Equal(t, jwtx.MainKeyID, km.KID())
	require.Equal(t, jwtx.AlgorithmRS256, km.Algorithm())

	t.Run("public params reconstruct the key", func(t *testing.T) {
		n, e := km.PublicKeyParams()
		require.NotContains(t, n, "=")
		require.NotContains(t, e, "=")

		nb, err := base64.RawURLEncoding.DecodeString(n)
		require.NoError(t, err)
		eb, err := base64.RawURLEncoding.DecodeString(e)
		require.NoError(t, err)

		require.NotZero(t, nb[0], "modulus must not carry leading zero octets")
		require.Equal(t, 0, privKey.N.Cmp(new(big.Int).SetBytes(nb)))
		require.Equal(t, int64(privKey.E), new(big.Int).SetBytes(eb).Int64())
		require.Equal(t, "AQAB", e)
	})

	t.Run("jwks shape", func(t *testing.T) {
		raw, err := json.Marshal(km.JWKS())
		require.NoError(t, err)

		var doc struct {
			Keys []map[string]string `json:"keys"`
		}
		require.NoError(t, json.Unmarshal(raw, &doc))
		require.Len(t, doc.Keys, 1)

		n, e := km.PublicKeyParams()
		require.Equal(t, map[string]string{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": "main",
			"n":   n,
			"e":   e,
		}, doc.Keys[0])
	})

	t.Run("header carries main kid", func(t *testing.T) {
		token, err := km.Sign(jwtx.NewIdentityClaims("user-1"))
		require.NoError(t, err)

		header, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[0])
		require.NoError(t, err)

		var h map[string]any
		require.NoError(t, json.Unmarshal(header, &h))
		require.Equal(t, "main", h["kid"])
		require.Equal(t, "RS256", h["alg"])
	})
}

func TestNewKeyManagerAcceptsPKCS8(t *testing.T) {
	privPEM, err := cryptox.GenerateRSAKeyPKCS8(cryptox.MinRSABits)
	require.NoError(t, err)

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{PrivateKeyPEM: privPEM})
	require.NoError(t, err)
	require.True(t, km.IsReady())
}

func TestNewKeyManagerRequiresKey(t *testing.T) {
	_, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer})
	require.Error(t, err)
}

func TestTokenVerifiesFromPublishedJWKSOnly(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(exampleIssuer, 2048)
	require.NoError(t, err)

	token, err := km.Sign(jwtx.NewSessionClaims("user-42", exampleIssuer, time.Hour, time.Now()))
	require.NoError(t, err)

	// Round-trip the JWKS through JSON the way a relying party would see it.
	raw, err := json.Marshal(km.JWKS())
	require.NoError(t, err)

	var published jwtx.JWKS
	require.NoError(t, json.Unmarshal(raw, &published))

	remote := jwtx.NewKeySet()
	require.NoError(t, remote.ResetFromJWKS(published))

	claims, err := jwtx.NewCommonRS256(remote, exampleIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-42", claims.Subject)
}

func TestIdentityTokenCarriesOnlySubject(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(exampleIssuer, 2048)
	require.NoError(t, err)

	token, err := km.Sign(jwtx.NewIdentityClaims("user-7"))
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, map[string]any{"sub": "user-7"}, body)

	// No issuer is stamped, so verification must not demand one.
	claims, err := jwtx.NewCommonRS256(km.KeySet, "").Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-7", claims.Subject)
}
