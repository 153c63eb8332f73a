package encryption

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/OmbraDiFenice/dupe-remover/internal/config"
)

func testEncryptionConfig(t *testing.T) config.EncryptionConfig {
	t.Helper()
	dir := t.TempDir()
	return config.EncryptionConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "dupe-remover.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "dupe-remover.key"),
	}
}

func TestAgeEncryptorRoundTrip(t *testing.T) {
	enc := NewAgeEncryptor(testEncryptionConfig(t))

	if enc.IsConfigured() {
		t.Fatal("IsConfigured = true before Setup")
	}

	if err := enc.Setup("test-passphrase"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if !enc.IsConfigured() {
		t.Fatal("IsConfigured = false after Setup")
	}

	plaintext := []byte("some image content to protect")
	var ciphertext bytes.Buffer
	if err := enc.Encrypt(bytes.NewReader(plaintext), &ciphertext); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Contains(ciphertext.Bytes(), plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	ctx, err := enc.Unlock("test-passphrase")
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	var decrypted bytes.Buffer
	if err := ctx.Decrypt(bytes.NewReader(ciphertext.Bytes()), &decrypted); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted.Bytes(), plaintext) {
		t.Errorf("Decrypt = %q, want %q", decrypted.Bytes(), plaintext)
	}
}

func TestAgeEncryptorUnlockWrongPassphrase(t *testing.T) {
	enc := NewAgeEncryptor(testEncryptionConfig(t))
	if err := enc.Setup("right"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if _, err := enc.Unlock("wrong"); err == nil {
		t.Fatal("expected error for wrong passphrase")
	}
}

func TestAgeEncryptorEncryptWithoutKeys(t *testing.T) {
	enc := NewAgeEncryptor(testEncryptionConfig(t))

	var out bytes.Buffer
	if err := enc.Encrypt(bytes.NewReader([]byte("data")), &out); err == nil {
		t.Fatal("expected error without a public key")
	}
}

func TestTestEncryptorRoundTrip(t *testing.T) {
	enc := NewTestEncryptor()

	plaintext := []byte("plain data")
	var ciphertext bytes.Buffer
	if err := enc.Encrypt(bytes.NewReader(plaintext), &ciphertext); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Equal(ciphertext.Bytes(), plaintext) {
		t.Error("encrypted output equals plaintext")
	}

	ctx, err := enc.Unlock("any")
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	var decrypted bytes.Buffer
	if err := ctx.Decrypt(bytes.NewReader(ciphertext.Bytes()), &decrypted); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted.Bytes(), plaintext) {
		t.Errorf("Decrypt = %q, want %q", decrypted.Bytes(), plaintext)
	}
}

func TestTestDecryptionContextRejectsBadHeader(t *testing.T) {
	ctx := &TestDecryptionContext{}

	var out bytes.Buffer
	if err := ctx.Decrypt(bytes.NewReader([]byte("BADHEADERdata")), &out); err == nil {
		t.Fatal("expected error for invalid header")
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		typ     string
		want    string
		wantErr bool
	}{
		{"", "*encryption.AgeEncryptor", false},
		{"age", "*encryption.AgeEncryptor", false},
		{"test", "*encryption.TestEncryptor", false},
		{"rot13", "", true},
	}

	for _, tt := range tests {
		t.Run("type "+tt.typ, func(t *testing.T) {
			enc, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fmt.Sprintf("%T", enc); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
