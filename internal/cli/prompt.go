package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

type credentials struct {
	Email    string
	Password string
}

func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// askCredentials fills what the flags left empty. On a terminal it shows a
// form; otherwise it reads one line per missing field.
func (a *App) askCredentials(c *credentials, title string) error {
	if c.Email != "" && c.Password != "" {
		return nil
	}
	if interactive(a.in) {
		return credentialsForm(c, title)
	}

	sc := bufio.NewScanner(a.in)
	read := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprintf(a.out, "%s: ", label)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return usageError("%s required", strings.ToLower(label))
		}
		*dst = strings.TrimSpace(sc.Text())
		return nil
	}
	if err := read("Email", &c.Email); err != nil {
		return err
	}
	if err := read("Password", &c.Password); err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	return nil
}

func credentialsForm(c *credentials, title string) error {
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Description("Email").
			Value(&c.Email).
			Validate(required("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Validate(required("password")),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return usageError("aborted")
		}
		return err
	}
	return nil
}
