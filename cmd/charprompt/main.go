// Command charprompt prints the image prompt the character wizard would send.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"folio/pkg/character"
	"folio/pkg/utils"
)

type options struct {
	species     string
	gender      string
	name        string
	photo       string
	photoGender string
	seed        uint64
	seeded      bool
	asJSON      bool
	diff        bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "charprompt",
		Short:         "Build a character portrait prompt from wizard choices",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seeded = cmd.Flags().Changed("seed")
			return run(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.species, "species", "s", "", "human, android or other")
	f.StringVarP(&opts.gender, "gender", "g", "", "male, female or other")
	f.StringVarP(&opts.name, "name", "n", "", "character name; blank picks one")
	f.StringVarP(&opts.photo, "photo", "p", "", "path to a reference photo")
	f.StringVar(&opts.photoGender, "photo-gender", "", "apparent gender of the person in the photo")
	f.Uint64Var(&opts.seed, "seed", 0, "fix every random choice")
	f.BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")
	f.BoolVar(&opts.diff, "diff", false, "show how the name was changed")
	_ = cmd.MarkFlagRequired("species")
	_ = cmd.MarkFlagRequired("gender")
	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	species, err := character.ParseSpecies(opts.species)
	if err != nil {
		return err
	}
	gender, err := character.ParseGender(opts.gender)
	if err != nil {
		return err
	}
	in := character.Input{Species: species, Gender: gender, Name: opts.name}
	if opts.photoGender != "" {
		if in.ReferenceGender, err = character.ParseGender(opts.photoGender); err != nil {
			return fmt.Errorf("photo-gender: %w", err)
		}
	}
	if opts.photo != "" {
		data, err := os.ReadFile(opts.photo)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		if !character.UsablePhoto(data) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not a readable image, ignoring it\n", opts.photo)
		} else {
			in.ReferencePhoto = data
		}
	}

	var engineOpts []character.Option
	if opts.seeded {
		engineOpts = append(engineOpts, character.WithRand(character.NewSeeded(opts.seed)))
	}
	res := character.NewEngine(engineOpts...).Build(in)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		fmt.Fprintln(out, utils.PrettyJSON(res))
		return nil
	}
	if opts.diff {
		fmt.Fprintln(out, renderDiff(character.NameDiff(in.Name, res.DisplayName)))
	}
	fmt.Fprintln(out, res.Prompt)
	return nil
}

// renderDiff marks inserted text with [+...] and removed text with [-...].
func renderDiff(deltas []utils.Delta) string {
	var b strings.Builder
	for _, d := range deltas {
		switch d.Op {
		case 1:
			b.WriteString("[+" + d.Text + "]")
		case -1:
			b.WriteString("[-" + d.Text + "]")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
