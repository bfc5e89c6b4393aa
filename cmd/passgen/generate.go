package main

import (
	"fmt"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// classFlags are the per-class switches, in canonical class order.
var classFlags = []struct {
	name  string
	class crypto.CharacterClass
	usage string
}{
	{"lower", crypto.Lowercase, "include lowercase letters (a-z)"},
	{"upper", crypto.Uppercase, "include uppercase letters (A-Z)"},
	{"digits", crypto.Digits, "include digits (0-9)"},
	{"symbols", crypto.Symbols, "include symbols"},
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random passwords",
		Long: `Generate random passwords from a cryptographically secure source.

Every character is drawn uniformly from the union of the selected classes.
All classes are used when none is selected.`,
		Args: cobra.NoArgs,
	}
	bindGenerate(a, cmd)
	return cmd
}

// bindGenerate registers the generate flags on cmd and makes it run generation.
func bindGenerate(a *app, cmd *cobra.Command) {
	v := viper.New()
	v.SetEnvPrefix("PASSGEN")
	v.AutomaticEnv()

	flags := cmd.Flags()
	flags.IntP("length", "l", 16, "password length (env PASSGEN_LENGTH)")
	flags.IntP("count", "c", 1, "number of passwords to generate (env PASSGEN_COUNT)")
	flags.String("classes", "", "comma separated classes: lower,upper,digits,symbols (env PASSGEN_CLASSES)")
	flags.Bool("require-each", false, "include at least one character of every selected class")
	for _, f := range classFlags {
		flags.Bool(f.name, false, f.usage)
	}

	for _, name := range []string{"length", "count", "classes"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		classes, err := selectedClasses(cmd, v)
		if err != nil {
			return err
		}

		count := v.GetInt("count")
		if count < 1 {
			return fmt.Errorf("count must be at least 1, got %d", count)
		}

		requireEach, _ := cmd.Flags().GetBool("require-each")
		opts := crypto.GeneratorOptions{
			Length:      v.GetInt("length"),
			Classes:     classes,
			RequireEach: requireEach,
		}

		for i := 0; i < count; i++ {
			password, err := crypto.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, password)
		}
		return nil
	}
}

// selectedClasses merges --classes (or PASSGEN_CLASSES) with the per-class
// switches. Nothing selected means every class, unless --classes was given
// explicitly.
func selectedClasses(cmd *cobra.Command, v *viper.Viper) ([]crypto.CharacterClass, error) {
	classes, err := crypto.ParseClasses(v.GetString("classes"))
	if err != nil {
		return nil, err
	}
	for _, f := range classFlags {
		if on, _ := cmd.Flags().GetBool(f.name); on {
			classes = append(classes, f.class)
		}
	}

	if len(classes) == 0 && !cmd.Flags().Changed("classes") {
		return crypto.AllClasses, nil
	}
	return classes, nil
}
