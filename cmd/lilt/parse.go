package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/nihei9/lilt/driver"
	"github.com/nihei9/lilt/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	trace  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | lilt parse grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "when this option is enabled, the parser prints every step it takes")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		panicked := false
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}

			retErr = err
			panicked = true
		}

		if retErr != nil && panicked {
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	cgram, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}

	var p *driver.Parser
	{
		src := os.Stdin
		if *parseFlags.source != "" {
			f, err := os.Open(*parseFlags.source)
			if err != nil {
				return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
			}
			defer f.Close()
			src = f
		}

		p, err = driver.NewParser(cgram, src)
		if err != nil {
			return err
		}
	}

	parseErr := p.Parse()

	if *parseFlags.trace {
		printTrace(os.Stdout, p.Trace())
	}

	if parseErr != nil {
		// Nontermination means a broken table, not a rejected input.
		if nErr, ok := parseErr.(*driver.NonterminationError); ok {
			return nErr
		}
		pterm.Error.Println(parseErr.Error())
		return nil
	}

	pterm.Info.Println("the input was accepted")
	return nil
}

func printTrace(w io.Writer, steps []*driver.Step) {
	stackWidth := len("STACK")
	inputWidth := len("INPUT")
	for _, step := range steps {
		if l := len(strings.Join(step.Stack, " ")); l > stackWidth {
			stackWidth = l
		}
		if l := len(strings.Join(step.Input, " ")); l > inputWidth {
			inputWidth = l
		}
	}

	fmt.Fprintf(w, "%-*v  %*v  %v\n", stackWidth, "STACK", inputWidth, "INPUT", "ACTION")
	for _, step := range steps {
		fmt.Fprintf(w, "%-*v  %*v  %v\n", stackWidth, strings.Join(step.Stack, " "), inputWidth, strings.Join(step.Input, " "), step.Action)
	}
}

func readCompiledGrammar(path string) (*spec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(d, cgram)
	if err != nil {
		return nil, err
	}

	return cgram, nil
}
