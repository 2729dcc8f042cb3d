package sunday

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseDIMACS parses text in the DIMACS CNF format: comment lines
// starting with 'c', one problem line "p cnf <#vars> <#clauses>", then
// the declared number of clauses, each a run of nonzero signed integers
// terminated by a 0.
//
// For convenience, comments may appear anywhere, not just in the
// preamble.
func ParseDIMACS(r io.Reader) (*Formula, error) {
	var (
		sawProblem bool
		numVars    int
		numClauses int
		clauses    []Clause
		clause     Clause
	)
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if len(line) == 0 || line[0] == 'c' {
			continue
		}
		// Some CNF formats attach extra data in a trailer after a line
		// containing a single %.
		if line == "%" {
			break
		}
		if line[0] == 'p' {
			if sawProblem {
				return nil, errors.New("multiple problem lines")
			}
			fields := strings.Fields(line)
			if len(fields) != 4 {
				return nil, fmt.Errorf("malformed problem line %q", line)
			}
			if fields[0] != "p" {
				return nil, fmt.Errorf("problem line starts with unexpected signifier %q", fields[0])
			}
			if fields[1] != "cnf" {
				return nil, fmt.Errorf("only cnf supported; got %q", fields[1])
			}
			var err error
			numVars, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("malformed #vars in problem line: %s", err)
			}
			numClauses, err = strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("malformed #clauses in problem line: %s", err)
			}
			if numVars < 1 {
				return nil, fmt.Errorf("invalid #vars %d", numVars)
			}
			if numClauses < 1 {
				return nil, fmt.Errorf("invalid #clauses %d", numClauses)
			}
			sawProblem = true
			continue
		}
		if !sawProblem {
			return nil, errors.New("missing problem line")
		}
		for _, field := range strings.Fields(line) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("invalid variable: %s", err)
			}
			if len(clauses) == numClauses {
				return nil, errors.New("too many clauses")
			}
			if n == 0 {
				clauses = append(clauses, clause)
				clause = nil
				continue
			}
			v := n
			if v < 0 {
				v = -v
			}
			if v > numVars {
				return nil, fmt.Errorf("formula contains var %d, but problem line asserts %d vars (only vars in [1, %d] expected)",
					v, numVars, numVars)
			}
			clause = append(clause, Literal{Var: v, Negated: n < 0})
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if !sawProblem {
		return nil, errors.New("missing problem line")
	}
	// A trailing clause with no 0 terminator stays open and is not
	// counted.
	if len(clauses) < numClauses {
		return nil, errors.New("too few clauses")
	}
	return &Formula{Clauses: clauses, NumVars: numVars}, nil
}

// WriteDIMACS writes f in the DIMACS CNF format accepted by
// ParseDIMACS.
func WriteDIMACS(w io.Writer, f *Formula) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVars, len(f.Clauses))
	for _, cls := range f.Clauses {
		for _, lit := range cls {
			bw.WriteString(lit.String())
			bw.WriteByte(' ')
		}
		bw.WriteString("0\n")
	}
	return bw.Flush()
}
