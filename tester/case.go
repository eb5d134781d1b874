package tester

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Verdict string

const (
	VerdictAccept = Verdict("accept")
	VerdictReject = Verdict("reject")
)

// TestCase is one source text with the verdict the parser must reach. A test
// case file has three parts separated by lines consisting of `---`: a
// description, a verdict, and the source. The source part is passed to the
// parser verbatim.
type TestCase struct {
	Description string
	Verdict     Verdict
	Source      []byte
}

const testCasePartSeparator = "---"

func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters; a test case consists of just 3 parts: %v parts found", len(parts))
	}

	verdict := Verdict(strings.TrimSpace(strings.Join(parts[1], "\n")))
	switch verdict {
	case VerdictAccept, VerdictReject:
	default:
		return nil, fmt.Errorf("a verdict must be either %v or %v: got: %v", VerdictAccept, VerdictReject, verdict)
	}

	return &TestCase{
		Description: strings.TrimSpace(strings.Join(parts[0], "\n")),
		Verdict:     verdict,
		Source:      []byte(strings.Join(parts[2], "\n")),
	}, nil
}

func splitIntoParts(r io.Reader) ([][]string, error) {
	var parts [][]string
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == testCasePartSeparator {
			parts = append(parts, lines)
			lines = nil
			continue
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	parts = append(parts, lines)
	if len(parts) == 1 {
		return nil, errors.New("a test case must contain part delimiters")
	}
	return parts, nil
}
