package crypto

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// MinAlphabetLength is the smallest custom digest alphabet accepted.
const MinAlphabetLength = 16

var (
	ErrCustomAlphabetTooShort  = errors.New("custom alphabet too short")
	ErrInvalidZipChunk         = errors.New("zip chunk size must be at least 1")
	ErrInvalidMaxLength        = errors.New("max length must not be negative")
	ErrUnknownHashingAlgorithm = errors.New("unknown hashing algorithm")
	ErrUnknownDigestAlgorithm  = errors.New("unknown digest algorithm")
	ErrUnknownSaltingAlgorithm = errors.New("unknown salting algorithm")
	ErrInvalidSettings         = errors.New("invalid algorithm settings")
)

// HashingAlgorithm selects the digest function applied to the salted input.
type HashingAlgorithm string

const (
	Sha256 HashingAlgorithm = "Sha256"
	Sha512 HashingAlgorithm = "Sha512"
)

// DigestKind selects how hash bytes are rendered as text.
type DigestKind string

const (
	DigestHex            DigestKind = "Hex"
	DigestBase64         DigestKind = "Base64"
	DigestBase64URL      DigestKind = "Base64Url"
	DigestCustomAlphabet DigestKind = "CustomAlphabet"
)

// DigestAlgorithm is a DigestKind plus the alphabet used by DigestCustomAlphabet.
type DigestAlgorithm struct {
	Kind     DigestKind
	Alphabet string
}

// SaltingKind selects how the passphrase is combined with the service name.
type SaltingKind string

const (
	SaltPrepend SaltingKind = "Prepend"
	SaltAppend  SaltingKind = "Append"
	SaltZip     SaltingKind = "Zip"
)

// SaltingAlgorithm is a SaltingKind plus the chunk size used by SaltZip.
type SaltingAlgorithm struct {
	Kind  SaltingKind
	Chunk int
}

// Settings configures deterministic password derivation. Zero-valued
// algorithm fields fall back to Sha256, Base64 and Prepend.
type Settings struct {
	Hashing           HashingAlgorithm `json:"hashing"`
	MaxLength         *int             `json:"max_length"`
	Digest            DigestAlgorithm  `json:"digest"`
	Salting           SaltingAlgorithm `json:"salting"`
	HashingIterations int              `json:"hashing_iterations"`
	SaltingIterations int              `json:"salting_iterations"`
}

// DefaultSettings returns a single round of prepend salting, SHA-256 and Base64.
func DefaultSettings() Settings {
	return Settings{
		Hashing:           Sha256,
		Digest:            DigestAlgorithm{Kind: DigestBase64},
		Salting:           SaltingAlgorithm{Kind: SaltPrepend},
		HashingIterations: 1,
		SaltingIterations: 1,
	}
}

// ParseSettings decodes settings from their JSON form. Missing fields keep
// their default values.
func ParseSettings(s string) (Settings, error) {
	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(s), &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s Settings) String() string {
	b, err := json.Marshal(s.normalized())
	if err != nil {
		return fmt.Sprintf("invalid settings: %v", err)
	}
	return string(b)
}

// Validate reports the first problem that would make Encode fail.
func (s Settings) Validate() error {
	n := s.normalized()

	switch n.Hashing {
	case Sha256, Sha512:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownHashingAlgorithm, n.Hashing)
	}

	switch n.Digest.Kind {
	case DigestHex, DigestBase64, DigestBase64URL:
	case DigestCustomAlphabet:
		if len([]rune(n.Digest.Alphabet)) < MinAlphabetLength {
			return ErrCustomAlphabetTooShort
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDigestAlgorithm, n.Digest.Kind)
	}

	switch n.Salting.Kind {
	case SaltPrepend, SaltAppend:
	case SaltZip:
		if n.Salting.Chunk < 1 {
			return ErrInvalidZipChunk
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSaltingAlgorithm, n.Salting.Kind)
	}

	if n.MaxLength != nil && *n.MaxLength < 0 {
		return ErrInvalidMaxLength
	}
	return nil
}

// normalized fills zero-valued fields with defaults. Iteration counts below
// one behave as a single round.
func (s Settings) normalized() Settings {
	if s.Hashing == "" {
		s.Hashing = Sha256
	}
	if s.Digest.Kind == "" {
		s.Digest.Kind = DigestBase64
	}
	if s.Salting.Kind == "" {
		s.Salting.Kind = SaltPrepend
	}
	if s.HashingIterations < 1 {
		s.HashingIterations = 1
	}
	if s.SaltingIterations < 1 {
		s.SaltingIterations = 1
	}
	return s
}

// Encode derives a password from passphrase and code. The passphrase is the
// salt applied to code on every salting round.
func Encode(passphrase, code []byte, settings Settings) (string, error) {
	if err := settings.Validate(); err != nil {
		return "", err
	}
	s := settings.normalized()

	salted := Salt(s.Salting, code, passphrase)
	for i := 1; i < s.SaltingIterations; i++ {
		salted = Salt(s.Salting, salted, passphrase)
	}

	hashed := Hash(s.Hashing, salted)
	for i := 1; i < s.HashingIterations; i++ {
		hashed = Hash(s.Hashing, hashed)
	}

	digested, err := Digest(s.Digest, hashed)
	if err != nil {
		return "", err
	}

	if s.MaxLength != nil {
		if r := []rune(digested); len(r) > *s.MaxLength {
			return string(r[:*s.MaxLength]), nil
		}
	}
	return digested, nil
}

// Salt combines data with salt.
func Salt(alg SaltingAlgorithm, data, salt []byte) []byte {
	switch alg.Kind {
	case SaltAppend:
		res := make([]byte, 0, len(data)+len(salt))
		res = append(res, data...)
		return append(res, salt...)
	case SaltZip:
		return zipChunks(data, salt, alg.Chunk)
	default:
		res := make([]byte, 0, len(data)+len(salt))
		res = append(res, salt...)
		return append(res, data...)
	}
}

// zipChunks interleaves n-byte chunks of salt and data, salt first, until
// either runs out.
func zipChunks(data, salt []byte, n int) []byte {
	if n < 1 {
		return nil
	}
	res := make([]byte, 0, len(data)+len(salt))
	for len(salt) > 0 && len(data) > 0 {
		s := min(n, len(salt))
		d := min(n, len(data))
		res = append(res, salt[:s]...)
		res = append(res, data[:d]...)
		salt, data = salt[s:], data[d:]
	}
	return res
}

// Hash returns the digest of data. Unknown algorithms hash with SHA-256.
func Hash(alg HashingAlgorithm, data []byte) []byte {
	if alg == Sha512 {
		sum := sha512.Sum512(data)
		return sum[:]
	}
	sum := sha256.Sum256(data)
	return sum[:]
}

// Digest renders data as text.
func Digest(alg DigestAlgorithm, data []byte) (string, error) {
	switch alg.Kind {
	case DigestHex:
		return hex.EncodeToString(data), nil
	case DigestBase64, "":
		return base64.StdEncoding.EncodeToString(data), nil
	case DigestBase64URL:
		return base64.RawURLEncoding.EncodeToString(data), nil
	case DigestCustomAlphabet:
		return customAlphabetDigest(alg.Alphabet, data)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDigestAlgorithm, alg.Kind)
}

// customAlphabetDigest reads data as a little-endian integer and writes its
// digits in the sorted alphabet, least significant digit first.
func customAlphabetDigest(alphabet string, data []byte) (string, error) {
	chars := []rune(alphabet)
	if len(chars) < MinAlphabetLength {
		return "", ErrCustomAlphabetTooShort
	}
	slices.Sort(chars)

	be := slices.Clone(data)
	slices.Reverse(be)
	n := new(big.Int).SetBytes(be)

	base := big.NewInt(int64(len(chars)))
	digit := new(big.Int)

	var b strings.Builder
	b.Grow(len(data))
	for n.Sign() > 0 {
		n.DivMod(n, base, digit)
		b.WriteRune(chars[digit.Int64()])
	}
	return b.String(), nil
}

// ParseHashingAlgorithm accepts case-insensitive names such as "sha512".
func ParseHashingAlgorithm(name string) (HashingAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha256":
		return Sha256, nil
	case "sha512":
		return Sha512, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHashingAlgorithm, name)
}

// ParseDigestAlgorithm accepts hex, base64, base64url or custom. Only custom
// uses alphabet.
func ParseDigestAlgorithm(name, alphabet string) (DigestAlgorithm, error) {
	switch strings.ToLower(name) {
	case "hex":
		return DigestAlgorithm{Kind: DigestHex}, nil
	case "base64":
		return DigestAlgorithm{Kind: DigestBase64}, nil
	case "base64url":
		return DigestAlgorithm{Kind: DigestBase64URL}, nil
	case "custom", "customalphabet":
		return DigestAlgorithm{Kind: DigestCustomAlphabet, Alphabet: alphabet}, nil
	}
	return DigestAlgorithm{}, fmt.Errorf("%w: %q", ErrUnknownDigestAlgorithm, name)
}

// ParseSaltingAlgorithm accepts prepend, append or zip. Only zip uses chunk.
func ParseSaltingAlgorithm(name string, chunk int) (SaltingAlgorithm, error) {
	switch strings.ToLower(name) {
	case "prepend":
		return SaltingAlgorithm{Kind: SaltPrepend}, nil
	case "append":
		return SaltingAlgorithm{Kind: SaltAppend}, nil
	case "zip":
		return SaltingAlgorithm{Kind: SaltZip, Chunk: chunk}, nil
	}
	return SaltingAlgorithm{}, fmt.Errorf("%w: %q", ErrUnknownSaltingAlgorithm, name)
}

// MarshalJSON writes unit variants as strings and CustomAlphabet as
// {"CustomAlphabet": "..."}.
func (d DigestAlgorithm) MarshalJSON() ([]byte, error) {
	if d.Kind == DigestCustomAlphabet {
		return json.Marshal(map[string]string{string(DigestCustomAlphabet): d.Alphabet})
	}
	return json.Marshal(string(d.Kind))
}

func (d *DigestAlgorithm) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var kind string
		if err := json.Unmarshal(data, &kind); err != nil {
			return err
		}
		switch DigestKind(kind) {
		case DigestHex, DigestBase64, DigestBase64URL:
			*d = DigestAlgorithm{Kind: DigestKind(kind)}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrUnknownDigestAlgorithm, kind)
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	alphabet, ok := tagged[string(DigestCustomAlphabet)]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("%w: %s", ErrUnknownDigestAlgorithm, data)
	}
	*d = DigestAlgorithm{Kind: DigestCustomAlphabet, Alphabet: alphabet}
	return nil
}

// MarshalJSON writes unit variants as strings and Zip as {"Zip": n}.
func (s SaltingAlgorithm) MarshalJSON() ([]byte, error) {
	if s.Kind == SaltZip {
		return json.Marshal(map[string]int{string(SaltZip): s.Chunk})
	}
	return json.Marshal(string(s.Kind))
}

func (s *SaltingAlgorithm) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var kind string
		if err := json.Unmarshal(data, &kind); err != nil {
			return err
		}
		switch SaltingKind(kind) {
		case SaltPrepend, SaltAppend:
			*s = SaltingAlgorithm{Kind: SaltingKind(kind)}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrUnknownSaltingAlgorithm, kind)
	}

	var tagged map[string]int
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	chunk, ok := tagged[string(SaltZip)]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("%w: %s", ErrUnknownSaltingAlgorithm, data)
	}
	*s = SaltingAlgorithm{Kind: SaltZip, Chunk: chunk}
	return nil
}

func (h *HashingAlgorithm) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch HashingAlgorithm(name) {
	case Sha256, Sha512:
		*h = HashingAlgorithm(name)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownHashingAlgorithm, name)
}
