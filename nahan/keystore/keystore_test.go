package keystore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

// Cheap parameters keep the tests fast; the format is identical.
var testStore = Store{Params: Params{Time: 1, Memory: 1024, Threads: 1}}

func testKey() [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = byte(i + 1)
	}
	return k
}

func TestSealOpen(t *testing.T) {
	priv := testKey()
	sealed, err := testStore.Seal(priv, []byte("correct horse"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(sealed) != 1+9+16+24+32+16 {
		t.Fatalf("unexpected sealed length %d", len(sealed))
	}
	if sealed[0] != 0x01 {
		t.Fatalf("unexpected version byte %#x", sealed[0])
	}
	if bytes.Contains(sealed, priv[:]) {
		t.Fatal("private key visible in sealed output")
	}

	got, err := testStore.Open(sealed, []byte("correct horse"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got != priv {
		t.Fatal("key mismatch")
	}
}

func TestSealIsRandomized(t *testing.T) {
	a, _ := testStore.Seal(testKey(), []byte("pw"))
	b, _ := testStore.Seal(testKey(), []byte("pw"))
	if bytes.Equal(a, b) {
		t.Fatal("two seals produced identical output")
	}
}

func TestOpenErrors(t *testing.T) {
	sealed, err := testStore.Seal(testKey(), []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := testStore.Open(sealed, []byte("wrong")); !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[12] ^= 1 // salt
	if _, err := testStore.Open(tampered, []byte("pw")); !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase for tampered salt, got %v", err)
	}

	if _, err := testStore.Open(sealed[:20], []byte("pw")); !errors.Is(err, ErrMalformedKeyFile) {
		t.Fatalf("expected ErrMalformedKeyFile, got %v", err)
	}
	badVersion := append([]byte{0x02}, sealed[1:]...)
	if _, err := testStore.Open(badVersion, []byte("pw")); !errors.Is(err, ErrMalformedKeyFile) {
		t.Fatalf("expected ErrMalformedKeyFile for version, got %v", err)
	}

	if _, err := testStore.Seal(testKey(), nil); !errors.Is(err, ErrEmptyPassphrase) {
		t.Fatalf("expected ErrEmptyPassphrase, got %v", err)
	}
}

func TestOpenReadsParamsFromFile(t *testing.T) {
	sealed, err := testStore.Seal(testKey(), []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}
	// A store configured with other costs still opens the file.
	other := Store{Params: Params{Time: 3, Memory: 2048, Threads: 2}}
	got, err := other.Open(sealed, []byte("pw"))
	if err != nil {
		t.Fatalf("Open with different store params: %v", err)
	}
	if got != testKey() {
		t.Fatal("key mismatch")
	}

	tampered := append([]byte(nil), sealed...)
	tampered[4] ^= 2 // time 1 becomes 3
	if _, err := other.Open(tampered, []byte("pw")); !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase for tampered params, got %v", err)
	}

	huge := append([]byte(nil), sealed...)
	huge[5] = 0xFF // memory
	if _, err := other.Open(huge, []byte("pw")); !errors.Is(err, ErrMalformedKeyFile) {
		t.Fatalf("expected ErrMalformedKeyFile for out of range memory, got %v", err)
	}

	if _, err := (Store{Params: Params{Time: 1, Memory: 1, Threads: 4}}).Seal(testKey(), []byte("pw")); err == nil {
		t.Fatal("expected error for invalid params")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "nahan.key")
	if err := testStore.SaveFile(path, testKey(), []byte("pw")); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := testStore.LoadFile(path, []byte("pw"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != testKey() {
		t.Fatal("key mismatch")
	}
}

func TestDefaultParams(t *testing.T) {
	if testing.Short() {
		t.Skip("argon2 with 64 MiB")
	}
	sealed, err := Seal(testKey(), []byte("pw"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Open(sealed, []byte("pw"))
	if err != nil || got != testKey() {
		t.Fatalf("Open: %v", err)
	}
}
