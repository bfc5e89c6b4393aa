package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/model"
)

const (
	DefaultLength = 16
	MaxLength     = 1024
	MaxCount      = 100
)

var (
	ErrLengthTooLong = fmt.Errorf("password length must be at most %d", MaxLength)
	ErrCountTooLarge = fmt.Errorf("count must be between 1 and %d", MaxCount)
)

// GeneratorService handles password generation business logic.
type GeneratorService struct{}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService() *GeneratorService {
	return &GeneratorService{}
}

// Generate produces one or more passwords based on the given request.
// A zero length or count selects the default; unset class flags are enabled.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	if req.Length == 0 {
		req.Length = DefaultLength
	}
	if req.Length > MaxLength {
		return model.GenerateResponse{}, ErrLengthTooLong
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 0 || req.Count > MaxCount {
		return model.GenerateResponse{}, ErrCountTooLarge
	}

	opts := crypto.GeneratorOptions{
		Length:      req.Length,
		RequireEach: req.RequireEach,
	}
	if boolOrDefault(req.Lowercase, true) {
		opts.Classes = append(opts.Classes, crypto.Lowercase)
	}
	if boolOrDefault(req.Uppercase, true) {
		opts.Classes = append(opts.Classes, crypto.Uppercase)
	}
	if boolOrDefault(req.Digits, true) {
		opts.Classes = append(opts.Classes, crypto.Digits)
	}
	if boolOrDefault(req.Symbols, true) {
		opts.Classes = append(opts.Classes, crypto.Symbols)
	}

	passwords := make([]string, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		password, err := crypto.Generate(opts)
		if err != nil {
			if !IsValidationError(err) {
				slog.Error("password generation failed", "error", err)
			}
			return model.GenerateResponse{}, err
		}
		passwords = append(passwords, password)
	}

	return model.GenerateResponse{
		Passwords: passwords,
		Length:    req.Length,
	}, nil
}

// IsValidationError reports whether err was caused by the caller's input.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var validationErrors = []error{
	crypto.ErrInvalidLength,
	crypto.ErrNoCharacterClassSelected,
	crypto.ErrLengthInsufficient,
	crypto.ErrUnknownCharacterClass,
	crypto.ErrCustomAlphabetTooShort,
	crypto.ErrInvalidZipChunk,
	crypto.ErrInvalidMaxLength,
	crypto.ErrUnknownHashingAlgorithm,
	crypto.ErrUnknownDigestAlgorithm,
	crypto.ErrUnknownSaltingAlgorithm,
	crypto.ErrInvalidSettings,
	ErrLengthTooLong,
	ErrCountTooLarge,
	ErrPassphraseRequired,
	ErrServiceRequired,
	ErrTooManyIterations,
	ErrSaltedInputTooLarge,
	ErrProfileNameInvalid,
	ErrSettingsRequired,
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
