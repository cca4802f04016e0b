// Package snake walks a cobra command tree with promptui, letting the user
// pick a subcommand and fill in its flags instead of typing them.
package snake

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// skipped commands make no sense to pick interactively.
var skipped = map[string]bool{
	"help":       true,
	"completion": true,
}

// PromptNext asks for a subcommand of cmd, descending until a runnable leaf,
// then prompts for its flags. It returns the argv for the root command.
func PromptNext(cmd *cobra.Command) ([]string, error) {
	var subcommands []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.Hidden || skipped[c.Name()] || !c.IsAvailableCommand() {
			continue
		}
		subcommands = append(subcommands, c)
	}
	if len(subcommands) == 0 {
		return nil, fmt.Errorf("%s has no subcommands", cmd.Name())
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Short | green }}",
		Inactive: "   {{ .Name }} {{ .Short | cyan }}",
		Selected: "{{ .Name | bold }}",
		Details: `
--------- Details ----------
{{ .Long }}
`,
	}

	searcher := func(input string, index int) bool {
		subcommand := subcommands[index]
		name := strings.Replace(strings.ToLower(subcommand.Name()+subcommand.Short), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)

		return strings.Contains(name, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Commands",
		Items:     subcommands,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    nopCloser{cmd.OutOrStdout()},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	next := subcommands[i]

	if next.HasAvailableSubCommands() && !next.Runnable() {
		rest, err := PromptNext(next)
		if err != nil {
			return nil, err
		}
		return append([]string{next.Name()}, rest...), nil
	}

	flags, err := PromptFlags(next)
	if err != nil {
		return nil, err
	}
	return append([]string{next.Name()}, flags...), nil
}

// PromptFlags loops over the flags of cmd until the user picks Continue and
// returns the chosen settings as --name=value arguments.
func PromptFlags(cmd *cobra.Command) ([]string, error) {
	var fs []*pflag.Flag
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		fs = append(fs, f)
	})
	if len(fs) == 0 {
		return nil, nil
	}

	fs = append(fs, &pflag.Flag{
		Name:   "Continue...",
		Hidden: true,
		Value:  &continueType{},
	})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . | magenta }} flags?",
		Active:   "➜ {{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }} {{ .Usage | green | cyan }}{{ end }}",
		Inactive: "  {{ if eq .Value.Type \"continue\" }}{{ .Name | faint | green }}{{ else }}{{ .Name }} {{ .Usage | cyan }}{{ end }}",
		Selected: "{{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }}{{ end }}",
		Details: `
--------- Details ----------
default: {{ .DefValue }}
type: {{ .Value.Type }}
`,
	}

	searcher := func(input string, index int) bool {
		f := fs[index]
		name := strings.Replace(strings.ToLower(f.Name), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)

		return strings.Contains(name, input)
	}

	p := prompter{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
	chosen := make(map[string]string)
	var order []string
	index := 0
	for {
		prompt := promptui.Select{
			HideHelp:  true,
			Label:     cmd.Name(),
			Items:     fs,
			Templates: templates,
			Size:      10,
			CursorPos: index,
			Searcher:  searcher,
			Stdin:     p.stdin(),
			Stdout:    p.stdout(),
		}

		i, _, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		index = i

		var (
			arg string
			ok  bool
		)
		switch t := fs[i].Value.Type(); t {
		case "continue":
			args := make([]string, 0, len(order))
			for _, name := range order {
				args = append(args, chosen[name])
			}
			return args, nil
		case "bool":
			arg, ok = p.PromptFlagBool(fs[i])
		case "int":
			arg, ok = p.PromptFlagInt(fs[i])
		case "string":
			arg, ok = p.PromptFlagString(fs[i])
		default:
			_, _ = fmt.Fprintf(p.out, "%q flag type not yet supported\n", t)
		}
		if !ok {
			continue
		}
		if _, seen := chosen[fs[i].Name]; !seen {
			order = append(order, fs[i].Name)
		}
		chosen[fs[i].Name] = arg
	}
}

type continueType struct{}

func (*continueType) String() string {
	return "continue"
}

func (*continueType) Set(string) error {
	return nil
}

func (*continueType) Type() string {
	return "continue"
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type prompter struct {
	in  io.Reader
	out io.Writer
}

func (p prompter) stdin() io.ReadCloser {
	return io.NopCloser(p.in)
}

func (p prompter) stdout() io.WriteCloser {
	return nopCloser{p.out}
}
