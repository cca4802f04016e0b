package snake

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/pflag"
)

// PromptFlagString asks for a free-form value for f.
func (p prompter) PromptFlagString(f *pflag.Flag) (string, bool) {
	p.describe(f)

	validate := func(input string) error {
		if len(input) == 0 && len(f.DefValue) == 0 {
			return errors.New("empty")
		}
		return nil
	}
	result, ok := p.ask(f, validate)
	if !ok {
		return "", false
	}
	return valueArg(f.Name, result), true
}

// PromptFlagInt asks for a whole number for f.
func (p prompter) PromptFlagInt(f *pflag.Flag) (string, bool) {
	p.describe(f)

	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := strconv.Atoi(input)
		return err
	}
	result, ok := p.ask(f, validate)
	if !ok {
		return "", false
	}
	return valueArg(f.Name, result), true
}

func (p prompter) ask(f *pflag.Flag, validate promptui.ValidateFunc) (string, bool) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf(`["%s"]`, f.DefValue),
		Templates: answerTemplates,
		Validate:  validate,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", false
	}
	if result == "" {
		result = f.DefValue
	}
	return result, true
}

// valueArg quotes nothing: the argv goes straight to cobra, not a shell.
func valueArg(name, value string) string {
	return fmt.Sprintf(`--%s=%s`, name, value)
}
