// Package security implements the platform signing contract: canonical
// payloads, RSA/RSA2 signatures, chunked RSA encryption and charset encoding.
//
// Keys are accepted either as the platform's bare base64 DER form (PKIX public
// keys, PKCS#8 private keys) or as PEM blocks.
package security
