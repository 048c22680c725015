package security

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
)

type testKeyPair struct {
	private string
	public  string
}

var (
	testKeysOnce sync.Once
	testKeys     [2]testKeyPair
	testKeysErr  error
)

// loadTestKeys generates two 1024-bit key pairs once per test binary.
func loadTestKeys(t *testing.T) (testKeyPair, testKeyPair) {
	t.Helper()
	testKeysOnce.Do(func() {
		for index := range testKeys {
			key, err := rsa.GenerateKey(rand.Reader, 1024)
			if err != nil {
				testKeysErr = err
				return
			}
			private, err := EncodePrivateKey(key)
			if err != nil {
				testKeysErr = err
				return
			}
			public, err := EncodePublicKey(&key.PublicKey)
			if err != nil {
				testKeysErr = err
				return
			}
			testKeys[index] = testKeyPair{private: private, public: public}
		}
	})
	if testKeysErr != nil {
		t.Fatalf("generate test keys: %v", testKeysErr)
	}
	return testKeys[0], testKeys[1]
}
