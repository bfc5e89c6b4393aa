package main

import (
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const randomSaltLength = 32

func newDeriveCmd(a *app) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PASSGEN")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "derive SERVICE",
		Short: "Derive the password of a service from a passphrase",
		Long: `Derive a deterministic password for SERVICE.

The passphrase salts the service name, the result is hashed and rendered
with the selected digest. The same passphrase, service and settings always
give the same password. Without --salt or --prompt a random salt is used
and the password cannot be derived again.`,
		Args: cobra.ExactArgs(1),
	}

	flags := cmd.Flags()
	flags.String("salt", "", "passphrase used to salt the service name (env PASSGEN_SALT)")
	flags.Bool("prompt", false, "read the passphrase from the terminal")
	flags.String("settings", "", "algorithm settings as JSON; other flags override it")
	flags.String("hashing", "sha256", "hashing algorithm: sha256 or sha512")
	flags.String("digest", "base64", "digest: hex, base64, base64url or custom")
	flags.String("alphabet", "", "alphabet for the custom digest (at least 16 characters)")
	flags.String("salting", "prepend", "salting: prepend, append or zip")
	flags.Int("zip", 1, "chunk size for zip salting; implies --salting zip")
	flags.Int("max-length", 0, "truncate the password to this many characters")
	flags.Int("hashing-iterations", 1, "number of hashing rounds")
	flags.Int("salting-iterations", 1, "number of salting rounds")

	if err := v.BindPFlag("salt", flags.Lookup("salt")); err != nil {
		panic(err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		settings, err := deriveSettings(cmd)
		if err != nil {
			return err
		}

		passphrase, err := resolvePassphrase(a, cmd, v)
		if err != nil {
			return err
		}

		password, err := crypto.Encode(passphrase, []byte(args[0]), settings)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, password)
		return nil
	}
	return cmd
}

// deriveSettings starts from --settings (or the defaults) and applies every
// algorithm flag the user set explicitly.
func deriveSettings(cmd *cobra.Command) (crypto.Settings, error) {
	flags := cmd.Flags()

	settings := crypto.DefaultSettings()
	if raw, _ := flags.GetString("settings"); raw != "" {
		parsed, err := crypto.ParseSettings(raw)
		if err != nil {
			return crypto.Settings{}, err
		}
		settings = parsed
	}

	if flags.Changed("hashing") {
		name, _ := flags.GetString("hashing")
		h, err := crypto.ParseHashingAlgorithm(name)
		if err != nil {
			return crypto.Settings{}, err
		}
		settings.Hashing = h
	}

	if flags.Changed("digest") || flags.Changed("alphabet") {
		name, _ := flags.GetString("digest")
		alphabet, _ := flags.GetString("alphabet")
		if !flags.Changed("digest") {
			name = "custom"
		}
		d, err := crypto.ParseDigestAlgorithm(name, alphabet)
		if err != nil {
			return crypto.Settings{}, err
		}
		settings.Digest = d
	}

	if flags.Changed("salting") || flags.Changed("zip") {
		name, _ := flags.GetString("salting")
		chunk, _ := flags.GetInt("zip")
		if !flags.Changed("salting") {
			name = "zip"
		}
		s, err := crypto.ParseSaltingAlgorithm(name, chunk)
		if err != nil {
			return crypto.Settings{}, err
		}
		settings.Salting = s
	}

	if flags.Changed("max-length") {
		n, _ := flags.GetInt("max-length")
		settings.MaxLength = &n
	}
	if flags.Changed("hashing-iterations") {
		settings.HashingIterations, _ = flags.GetInt("hashing-iterations")
	}
	if flags.Changed("salting-iterations") {
		settings.SaltingIterations, _ = flags.GetInt("salting-iterations")
	}

	return settings, settings.Validate()
}

func resolvePassphrase(a *app, cmd *cobra.Command, v *viper.Viper) ([]byte, error) {
	if prompt, _ := cmd.Flags().GetBool("prompt"); prompt {
		return a.readPassphrase()
	}
	if salt := v.GetString("salt"); salt != "" {
		return []byte(salt), nil
	}

	slog.Warn("no passphrase given, using a random salt; this password cannot be derived again")
	salt := make([]byte, randomSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}
