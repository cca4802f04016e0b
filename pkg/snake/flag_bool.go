package snake

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/pflag"
)

var answerTemplates = &promptui.PromptTemplates{
	Prompt:  "Answer {{ . }} : ",
	Valid:   "Answer {{ . | green }} : ",
	Invalid: "Answer {{ . | red }} : ",
	Success: "{{ . | bold }} : ",
}

func asFlags(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("--%s, -%s", f.Name, f.Shorthand)
	}
	return fmt.Sprintf("--%s", f.Name)
}

func (p prompter) describe(f *pflag.Flag) {
	_, _ = fmt.Fprintf(p.out, "%s: %s [%s] Default: %s\n", asFlags(f), f.Usage, f.Value.Type(), f.DefValue)
}

// PromptFlagBool asks for a yes/no answer for f.
func (p prompter) PromptFlagBool(f *pflag.Flag) (string, bool) {
	p.describe(f)

	validInput := "true/false"
	if defTrue, err := ParseBool(f.DefValue); err == nil {
		if defTrue {
			validInput = "[true]/false"
		} else {
			validInput = "true/[false]"
		}
	}

	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := ParseBool(input)
		return err
	}

	prompt := promptui.Prompt{
		Label:     validInput,
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
	r, _ := ParseBool(result)
	return boolArg(f.Name, r), true
}

func boolArg(name string, v bool) string {
	return fmt.Sprintf(`--%s=%t`, name, v)
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
