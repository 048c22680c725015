package security

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	SignTypeRSA  = "RSA"
	SignTypeRSA2 = "RSA2"
)

func hashFor(signType string) (crypto.Hash, error) {
	switch strings.ToUpper(strings.TrimSpace(signType)) {
	case SignTypeRSA:
		return crypto.SHA1, nil
	case SignTypeRSA2:
		return crypto.SHA256, nil
	default:
		return 0, fmt.Errorf("security: unsupported sign type %q", signType)
	}
}

func digest(hash crypto.Hash, payload []byte) []byte {
	if hash == crypto.SHA1 {
		sum := sha1.Sum(payload)
		return sum[:]
	}
	sum := sha256.Sum256(payload)
	return sum[:]
}

// Sign returns the base64 PKCS#1 v1.5 signature of content encoded in charset.
func Sign(content string, privateKey string, charset string, signType string) (string, error) {
	hash, err := hashFor(signType)
	if err != nil {
		return "", err
	}
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	payload, err := EncodeString(content, charset)
	if err != nil {
		return "", err
	}
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, hash, digest(hash, payload))
	if err != nil {
		return "", fmt.Errorf("security: sign payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

// VerifyContent checks a base64 signature over content.
func VerifyContent(content string, signature string, publicKey string, charset string, signType string) error {
	hash, err := hashFor(signType)
	if err != nil {
		return err
	}
	if strings.TrimSpace(signature) == "" {
		return fmt.Errorf("security: signature is required")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return fmt.Errorf("security: signature is not base64")
	}
	key, err := ParsePublicKey(publicKey)
	if err != nil {
		return err
	}
	payload, err := EncodeString(content, charset)
	if err != nil {
		return err
	}
	if err := rsa.VerifyPKCS1v15(key, hash, digest(hash, payload), raw); err != nil {
		return fmt.Errorf("security: signature mismatch")
	}
	return nil
}

// SignParams signs the outbound request form of params (empty entries left out).
func SignParams(params map[string]string, privateKey string, charset string, signType string) (string, error) {
	return Sign(SigningString(params), privateKey, charset, signType)
}

// Verify checks the sign parameter of params against their canonical form.
func Verify(params map[string]string, publicKey string, charset string, signType string) error {
	return VerifyContent(CanonicalString(params), params["sign"], publicKey, charset, signType)
}
