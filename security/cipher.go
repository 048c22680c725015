package security

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"strings"
)

// pkcs1Overhead is the PKCS#1 v1.5 padding size per encrypted block.
const pkcs1Overhead = 11

// Encrypt encrypts content with the RSA public key in blocks of k-11 bytes and
// returns the concatenated ciphertext as standard base64.
func Encrypt(content string, publicKey string, charset string) (string, error) {
	key, err := ParsePublicKey(publicKey)
	if err != nil {
		return "", err
	}
	plain, err := EncodeString(content, charset)
	if err != nil {
		return "", err
	}
	blockSize := key.Size() - pkcs1Overhead
	var out bytes.Buffer
	for offset := 0; offset < len(plain); offset += blockSize {
		end := min(offset+blockSize, len(plain))
		chunk, err := rsa.EncryptPKCS1v15(rand.Reader, key, plain[offset:end])
		if err != nil {
			return "", fmt.Errorf("security: encrypt block: %w", err)
		}
		out.Write(chunk)
	}
	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

// Decrypt reverses Encrypt with the matching private key.
func Decrypt(cipherText string, privateKey string, charset string) (string, error) {
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cipherText))
	if err != nil {
		return "", fmt.Errorf("security: ciphertext is not base64")
	}
	blockSize := key.Size()
	if len(raw)%blockSize != 0 {
		return "", fmt.Errorf("security: ciphertext length is invalid")
	}
	var out bytes.Buffer
	for offset := 0; offset < len(raw); offset += blockSize {
		chunk, err := rsa.DecryptPKCS1v15(rand.Reader, key, raw[offset:offset+blockSize])
		if err != nil {
			return "", fmt.Errorf("security: decrypt block: %w", err)
		}
		out.Write(chunk)
	}
	return DecodeBytes(out.Bytes(), charset)
}
