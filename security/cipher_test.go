package security

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTripAcrossBlocks(t *testing.T) {
	pair, _ := loadTestKeys(t)
	// 1024-bit keys carry 117 plaintext bytes per block; force several blocks.
	body := "<success>true</success><biz_content>" + strings.Repeat("MIIBIjANBgkqhkiG9w0BAQEFAAOC", 12) + "</biz_content>"

	cipherText, err := Encrypt(body, pair.public, "utf-8")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if strings.Contains(cipherText, "success") {
		t.Fatalf("ciphertext must not contain plaintext")
	}
	plain, err := Decrypt(cipherText, pair.private, "utf-8")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != body {
		t.Fatalf("round trip mismatch:\nwant %q\ngot  %q", body, plain)
	}
}

func TestDecryptRejectsWrongKeyAndTruncation(t *testing.T) {
	pair, other := loadTestKeys(t)
	cipherText, err := Encrypt("hello", pair.public, "utf-8")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := Decrypt(cipherText, other.private, "utf-8"); err == nil {
		t.Fatalf("expected decryption with wrong key to fail")
	}
	if _, err := Decrypt(cipherText[:len(cipherText)-8], pair.private, "utf-8"); err == nil {
		t.Fatalf("expected truncated ciphertext to fail")
	}
	if _, err := Encrypt("hello", "garbage", "utf-8"); err == nil {
		t.Fatalf("expected bad public key to fail")
	}
}
