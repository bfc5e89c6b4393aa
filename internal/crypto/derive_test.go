package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

const (
	sha256ABC = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	sha512ABC = "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
		"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"
)

func intPtr(n int) *int { return &n }

func hexSettings() Settings {
	s := DefaultSettings()
	s.Digest = DigestAlgorithm{Kind: DigestHex}
	return s
}

func TestEncodeKnownVectors(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		code       string
		settings   func() Settings
		want       string
	}{
		{
			name:       "default settings on empty input",
			passphrase: "",
			code:       "",
			settings:   DefaultSettings,
			want:       "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=",
		},
		{
			name:       "prepend puts passphrase first",
			passphrase: "a",
			code:       "bc",
			settings:   hexSettings,
			want:       sha256ABC,
		},
		{
			name:       "append puts passphrase last",
			passphrase: "c",
			code:       "ab",
			settings: func() Settings {
				s := hexSettings()
				s.Salting = SaltingAlgorithm{Kind: SaltAppend}
				return s
			},
			want: sha256ABC,
		},
		{
			name:       "zip interleaves chunks",
			passphrase: "ab",
			code:       "c",
			settings: func() Settings {
				s := hexSettings()
				s.Salting = SaltingAlgorithm{Kind: SaltZip, Chunk: 2}
				return s
			},
			want: sha256ABC,
		},
		{
			name:       "sha512",
			passphrase: "a",
			code:       "bc",
			settings: func() Settings {
				s := hexSettings()
				s.Hashing = Sha512
				return s
			},
			want: sha512ABC,
		},
		{
			name:       "max length truncates",
			passphrase: "a",
			code:       "bc",
			settings: func() Settings {
				s := hexSettings()
				s.MaxLength = intPtr(10)
				return s
			},
			want: sha256ABC[:10],
		},
		{
			name:       "max length longer than digest",
			passphrase: "a",
			code:       "bc",
			settings: func() Settings {
				s := hexSettings()
				s.MaxLength = intPtr(1000)
				return s
			},
			want: sha256ABC,
		},
		{
			name:       "zero settings behave as defaults",
			passphrase: "",
			code:       "",
			settings:   func() Settings { return Settings{} },
			want:       "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode([]byte(tt.passphrase), []byte(tt.code), tt.settings())
			if err != nil {
				t.Fatalf("Encode() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeIterations(t *testing.T) {
	s := hexSettings()
	s.HashingIterations = 3
	s.SaltingIterations = 2

	got, err := Encode([]byte("pass"), []byte("svc"), s)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	// Two prepend rounds: pass + (pass + svc).
	sum := sha256.Sum256([]byte("passpasssvc"))
	for i := 1; i < 3; i++ {
		sum = sha256.Sum256(sum[:])
	}
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	s := DefaultSettings()
	s.Salting = SaltingAlgorithm{Kind: SaltZip, Chunk: 3}
	s.Digest = DigestAlgorithm{Kind: DigestBase64URL}

	first, err := Encode([]byte("correct horse"), []byte("example.com"), s)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	second, err := Encode([]byte("correct horse"), []byte("example.com"), s)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("Encode() not deterministic: %q != %q", first, second)
	}

	other, err := Encode([]byte("correct horse"), []byte("example.org"), s)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if other == first {
		t.Error("Encode() returned the same password for different services")
	}
}

func TestEncodeInvalidSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  error
	}{
		{
			name:     "short custom alphabet",
			settings: Settings{Digest: DigestAlgorithm{Kind: DigestCustomAlphabet, Alphabet: "abc"}},
			wantErr:  ErrCustomAlphabetTooShort,
		},
		{
			name:     "zero zip chunk",
			settings: Settings{Salting: SaltingAlgorithm{Kind: SaltZip}},
			wantErr:  ErrInvalidZipChunk,
		},
		{
			name:     "negative max length",
			settings: Settings{MaxLength: intPtr(-1)},
			wantErr:  ErrInvalidMaxLength,
		},
		{
			name:     "unknown hashing",
			settings: Settings{Hashing: "md5"},
			wantErr:  ErrUnknownHashingAlgorithm,
		},
		{
			name:     "unknown digest",
			settings: Settings{Digest: DigestAlgorithm{Kind: "base32"}},
			wantErr:  ErrUnknownDigestAlgorithm,
		},
		{
			name:     "unknown salting",
			settings: Settings{Salting: SaltingAlgorithm{Kind: "shuffle"}},
			wantErr:  ErrUnknownSaltingAlgorithm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode([]byte("p"), []byte("s"), tt.settings)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Encode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSalt(t *testing.T) {
	tests := []struct {
		name string
		alg  SaltingAlgorithm
		data string
		salt string
		want string
	}{
		{name: "prepend", alg: SaltingAlgorithm{Kind: SaltPrepend}, data: "data", salt: "salt", want: "saltdata"},
		{name: "append", alg: SaltingAlgorithm{Kind: SaltAppend}, data: "data", salt: "salt", want: "datasalt"},
		{name: "zip by one", alg: SaltingAlgorithm{Kind: SaltZip, Chunk: 1}, data: "1234", salt: "abcd", want: "a1b2c3d4"},
		{name: "zip by two", alg: SaltingAlgorithm{Kind: SaltZip, Chunk: 2}, data: "1234", salt: "abcd", want: "ab12cd34"},
		{name: "zip stops at shorter salt", alg: SaltingAlgorithm{Kind: SaltZip, Chunk: 1}, data: "1234", salt: "ab", want: "a1b2"},
		{name: "zip keeps partial chunk", alg: SaltingAlgorithm{Kind: SaltZip, Chunk: 3}, data: "12345", salt: "abcdef", want: "abc123def45"},
		{name: "zip with empty salt", alg: SaltingAlgorithm{Kind: SaltZip, Chunk: 2}, data: "1234", salt: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Salt(tt.alg, []byte(tt.data), []byte(tt.salt)))
			if got != tt.want {
				t.Errorf("Salt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDigestEncodings(t *testing.T) {
	data := []byte{0xfb, 0xff, 0x01}

	tests := []struct {
		alg  DigestAlgorithm
		want string
	}{
		{alg: DigestAlgorithm{Kind: DigestHex}, want: "fbff01"},
		{alg: DigestAlgorithm{Kind: DigestBase64}, want: "+/8B"},
		{alg: DigestAlgorithm{Kind: DigestBase64URL}, want: "-_8B"},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg.Kind), func(t *testing.T) {
			got, err := Digest(tt.alg, data)
			if err != nil {
				t.Fatalf("Digest() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Digest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDigestCustomAlphabet(t *testing.T) {
	// Unsorted on purpose: digits are taken from the sorted alphabet.
	alg := DigestAlgorithm{Kind: DigestCustomAlphabet, Alphabet: "fedcba9876543210"}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "zero is empty", data: []byte{0, 0}, want: ""},
		{name: "one", data: []byte{0x01}, want: "1"},
		{name: "little endian", data: []byte{0x00, 0x01}, want: "001"},
		{name: "least significant digit first", data: []byte{0xab}, want: "ba"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Digest(alg, tt.data)
			if err != nil {
				t.Fatalf("Digest() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Digest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDigestCustomAlphabetOnlyUsesAlphabet(t *testing.T) {
	alphabet := "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	s := DefaultSettings()
	s.Digest = DigestAlgorithm{Kind: DigestCustomAlphabet, Alphabet: alphabet}

	got, err := Encode([]byte("secret"), []byte("mail"), s)
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if got == "" {
		t.Fatal("Encode() returned empty password")
	}
	for _, ch := range got {
		if !strings.ContainsRune(alphabet, ch) {
			t.Errorf("password %q contains %q outside alphabet", got, ch)
		}
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings(`{"hashing":"Sha512","max_length":12,"digest":{"CustomAlphabet":"0123456789abcdefXYZ"},"salting":{"Zip":4},"hashing_iterations":5,"salting_iterations":2}`)
	if err != nil {
		t.Fatalf("ParseSettings() unexpected error: %v", err)
	}
	if s.Hashing != Sha512 {
		t.Errorf("Hashing = %q, want %q", s.Hashing, Sha512)
	}
	if s.MaxLength == nil || *s.MaxLength != 12 {
		t.Errorf("MaxLength = %v, want 12", s.MaxLength)
	}
	if s.Digest.Kind != DigestCustomAlphabet || s.Digest.Alphabet != "0123456789abcdefXYZ" {
		t.Errorf("Digest = %+v", s.Digest)
	}
	if s.Salting.Kind != SaltZip || s.Salting.Chunk != 4 {
		t.Errorf("Salting = %+v", s.Salting)
	}
	if s.HashingIterations != 5 || s.SaltingIterations != 2 {
		t.Errorf("iterations = %d/%d, want 5/2", s.HashingIterations, s.SaltingIterations)
	}
}

func TestParseSettingsPartialKeepsDefaults(t *testing.T) {
	s, err := ParseSettings(`{"digest":"Hex"}`)
	if err != nil {
		t.Fatalf("ParseSettings() unexpected error: %v", err)
	}
	want := DefaultSettings()
	want.Digest = DigestAlgorithm{Kind: DigestHex}
	if s.String() != want.String() {
		t.Errorf("ParseSettings() = %s, want %s", s, want)
	}
}

func TestParseSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "not json", input: "sha256", wantErr: ErrInvalidSettings},
		{name: "unknown hashing", input: `{"hashing":"Md5"}`, wantErr: ErrInvalidSettings},
		{name: "unknown digest tag", input: `{"digest":{"Base32":"x"}}`, wantErr: ErrInvalidSettings},
		{name: "unknown salting", input: `{"salting":"Shuffle"}`, wantErr: ErrInvalidSettings},
		{name: "short alphabet", input: `{"digest":{"CustomAlphabet":"abc"}}`, wantErr: ErrCustomAlphabetTooShort},
		{name: "zero zip", input: `{"salting":{"Zip":0}}`, wantErr: ErrInvalidZipChunk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseSettings() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsStringRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.MaxLength = intPtr(20)
	s.Digest = DigestAlgorithm{Kind: DigestCustomAlphabet, Alphabet: "abcdefghijklmnopq"}
	s.Salting = SaltingAlgorithm{Kind: SaltZip, Chunk: 5}

	encoded := s.String()
	if !strings.Contains(encoded, `"salting":{"Zip":5}`) {
		t.Errorf("String() = %s, want externally tagged zip", encoded)
	}
	if !strings.Contains(encoded, `"hashing":"Sha256"`) {
		t.Errorf("String() = %s, want unit variant as string", encoded)
	}

	parsed, err := ParseSettings(encoded)
	if err != nil {
		t.Fatalf("ParseSettings(%s) unexpected error: %v", encoded, err)
	}
	if parsed.String() != encoded {
		t.Errorf("round trip = %s, want %s", parsed, encoded)
	}
}

func TestParseAlgorithmNames(t *testing.T) {
	if h, err := ParseHashingAlgorithm("SHA512"); err != nil || h != Sha512 {
		t.Errorf("ParseHashingAlgorithm(SHA512) = %q, %v", h, err)
	}
	if _, err := ParseHashingAlgorithm("md5"); !errors.Is(err, ErrUnknownHashingAlgorithm) {
		t.Errorf("ParseHashingAlgorithm(md5) error = %v", err)
	}
	if d, err := ParseDigestAlgorithm("base64url", ""); err != nil || d.Kind != DigestBase64URL {
		t.Errorf("ParseDigestAlgorithm(base64url) = %+v, %v", d, err)
	}
	if d, err := ParseDigestAlgorithm("custom", "xyz"); err != nil || d.Alphabet != "xyz" {
		t.Errorf("ParseDigestAlgorithm(custom) = %+v, %v", d, err)
	}
	if s, err := ParseSaltingAlgorithm("zip", 3); err != nil || s.Chunk != 3 {
		t.Errorf("ParseSaltingAlgorithm(zip) = %+v, %v", s, err)
	}
	if _, err := ParseSaltingAlgorithm("rot13", 0); !errors.Is(err, ErrUnknownSaltingAlgorithm) {
		t.Errorf("ParseSaltingAlgorithm(rot13) error = %v", err)
	}
}
