package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// field is one prompted value. Fields whose value is already set (from a
// flag) are not asked for.
type field struct {
	title    string
	value    *string
	password bool
}

// promptMissing asks for every empty field in one form. It does nothing
// when all fields are set or when stdin is not a terminal; validation
// then reports what is missing.
func (a *app) promptMissing(title string, fields ...field) error {
	var inputs []huh.Field
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		in := huh.NewInput().Title(f.title).Value(f.value)
		if f.password {
			in = in.EchoMode(huh.EchoModePassword)
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 || !a.interactive() {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(inputs...).Title(title))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
