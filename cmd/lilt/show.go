package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/lilt/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  lilt show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	err = writeReport(os.Stdout, report)
	if err != nil {
		return err
	}

	return nil
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const reportTemplate = `# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Non-terminals

{{ range .NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# FIRST

{{ range .First -}}
{{ printFirst . }}
{{ end }}
# FOLLOW

{{ range .Follow -}}
{{ printFollow . }}
{{ end }}
# Prediction table

{{ range predictionEntries . -}}
{{ . }}
{{ end -}}
{{ range .Conflicts }}
{{ printConflict . }}
{{- end }}
`

func writeReport(w io.Writer, report *spec.Report) error {
	term2Name := map[int]string{}
	for _, t := range report.Terminals {
		term2Name[t.Number] = t.Name
	}
	nonTerm2Name := map[int]string{}
	for _, n := range report.NonTerminals {
		nonTerm2Name[n.Number] = n.Name
	}

	termName := func(sym int) string {
		return term2Name[sym]
	}

	nonTermName := func(sym int) string {
		return nonTerm2Name[sym]
	}

	renderRHS := func(rhs []int) string {
		if len(rhs) == 0 {
			return " ε"
		}
		var b strings.Builder
		for _, e := range rhs {
			if e > 0 {
				fmt.Fprintf(&b, " %v", termName(e))
			} else {
				fmt.Fprintf(&b, " %v", nonTermName(e*-1))
			}
		}
		return b.String()
	}

	renderTermSet := func(terms []int, extra string) string {
		elems := make([]string, 0, len(terms)+1)
		for _, t := range terms {
			elems = append(elems, termName(t))
		}
		if extra != "" {
			elems = append(elems, extra)
		}
		return fmt.Sprintf("{ %v }", strings.Join(elems, ", "))
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			switch len(report.Conflicts) {
			case 0:
				return "No conflict; the grammar is LL(1)"
			case 1:
				return "1 conflict occurred; the grammar is not LL(1)"
			default:
				return fmt.Sprintf("%v conflicts occurred; the grammar is not LL(1)", len(report.Conflicts))
			}
		},
		"printTerminal": func(term spec.Terminal) string {
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printNonTerminal": func(nonTerm spec.NonTerminal) string {
			return fmt.Sprintf("%4v %v", nonTerm.Number, nonTerm.Name)
		},
		"printProduction": func(prod spec.Production) string {
			return fmt.Sprintf("%4v %v →%v", prod.Number, nonTermName(prod.LHS), renderRHS(prod.RHS))
		},
		"printFirst": func(fst spec.FirstSet) string {
			var extra string
			if fst.Empty {
				extra = "ε"
			}
			return fmt.Sprintf("FIRST(%v) = %v", nonTermName(fst.Symbol), renderTermSet(fst.Terminals, extra))
		},
		"printFollow": func(flw spec.FollowSet) string {
			var extra string
			if flw.EOF {
				extra = "<eof>"
			}
			return fmt.Sprintf("FOLLOW(%v) = %v", nonTermName(flw.Symbol), renderTermSet(flw.Terminals, extra))
		},
		"predictionEntries": func(report *spec.Report) []string {
			var lines []string
			for nonTerm := 1; nonTerm < report.NonTerminalCount; nonTerm++ {
				for term := 1; term < report.TerminalCount; term++ {
					prodNum := report.Entries[nonTerm*report.TerminalCount+term]
					if prodNum == 0 {
						continue
					}
					prod := report.Productions[prodNum-1]
					lines = append(lines, fmt.Sprintf("M[%v, %v] = %v →%v", nonTermName(nonTerm), termName(term), nonTermName(prod.LHS), renderRHS(prod.RHS)))
				}
			}
			return lines
		},
		"printConflict": func(c spec.Conflict) string {
			p1 := report.Productions[c.Production1-1]
			p2 := report.Productions[c.Production2-1]
			return fmt.Sprintf("conflict at M[%v, %v]: %v →%v and %v →%v", nonTermName(c.NonTerminal), termName(c.LookAhead),
				nonTermName(p1.LHS), renderRHS(p1.RHS), nonTermName(p2.LHS), renderRHS(p2.RHS))
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}
