// Package sunday implements a small SAT solver using the classic DPLL
// backtracking procedure: no propagation, no learning, no branching
// heuristics, just exhaustive depth-first search that prunes branches as
// soon as a clause is falsified.
package sunday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/samber/lo"
)

// A Literal is a variable or its negation. Var is the 1-based DIMACS
// variable id.
type Literal struct {
	Var     int
	Negated bool
}

// Negate returns the opposite literal. Negating twice gives back the
// original literal.
func (l Literal) Negate() Literal {
	l.Negated = !l.Negated
	return l
}

// String renders the literal as a signed DIMACS integer.
func (l Literal) String() string {
	if l.Negated {
		return "-" + strconv.Itoa(l.Var)
	}
	return strconv.Itoa(l.Var)
}

func (l Literal) assn() assnVal {
	if l.Negated {
		return assnFalse
	}
	return assnTrue
}

// A Clause is the disjunction of its literals. A clause with no literals
// can never be satisfied.
type Clause []Literal

// Satisfied reports whether at least one literal in c is assigned with
// its own polarity. A literal whose variable is unassigned counts as
// neither satisfying nor falsifying the clause.
func (c Clause) Satisfied(a *Assignment) bool {
	return lo.SomeBy(c, a.Assigned)
}

// Falsified reports whether every literal in c has its complement
// assigned, so that no completion of a can satisfy c.
func (c Clause) Falsified(a *Assignment) bool {
	return lo.EveryBy(c, func(lit Literal) bool {
		return a.Assigned(lit.Negate())
	})
}

// A Formula is the conjunction of its clauses over the contiguous
// variable ids [1, NumVars].
type Formula struct {
	Clauses []Clause
	NumVars int
}

// NewFormula builds a Formula from clauses of signed integers in the
// DIMACS convention: the magnitude is the 1-based variable id and a
// negative sign marks negation. Every magnitude must lie in
// [1, numVars].
func NewFormula(clauses [][]int, numVars int) (*Formula, error) {
	if numVars < 0 {
		return nil, fmt.Errorf("invalid #vars %d", numVars)
	}
	f := &Formula{
		Clauses: make([]Clause, len(clauses)),
		NumVars: numVars,
	}
	for i, cls := range clauses {
		clause := make(Clause, 0, len(cls))
		for _, n := range cls {
			if n == 0 {
				return nil, errors.New("zero var in clause")
			}
			v := n
			if v < 0 {
				v = -v
			}
			if v > numVars {
				return nil, fmt.Errorf("var %d out of range [1, %d]", v, numVars)
			}
			clause = append(clause, Literal{Var: v, Negated: n < 0})
		}
		f.Clauses[i] = clause
	}
	return f, nil
}

func (f *Formula) satisfied(a *Assignment) bool {
	return lo.EveryBy(f.Clauses, func(c Clause) bool { return c.Satisfied(a) })
}

func (f *Formula) falsified(a *Assignment) bool {
	return lo.SomeBy(f.Clauses, func(c Clause) bool { return c.Falsified(a) })
}

// Verify reports whether a satisfies every clause of f. It checks a
// model with the same rules the solver uses at its SAT terminal, so any
// assignment returned by Solve verifies.
func (f *Formula) Verify(a *Assignment) bool {
	return f.satisfied(a)
}

// Solve determines whether f is satisfiable and, if it is, gives a
// satisfying assignment.
//
// The assignment handed back may leave some variables unassigned: the
// search stops as soon as every clause is satisfied, not once every
// variable is fixed. Any completion of such an assignment is a model.
//
// The stats that are given back are purely informational. The set of
// stats and their types may change at any time.
func (f *Formula) Solve() (assignment *Assignment, stats map[string]interface{}, sat bool) {
	sv := newSolver(f)
	ok := sv.solve()

	stats = map[string]interface{}{
		"num decisions":  sv.numDecisions,
		"num backtracks": sv.numBacktracks,
	}

	if !ok {
		return nil, stats, false
	}
	return sv.assn, stats, true
}

type assnVal uint8

const (
	unassigned assnVal = iota
	assnTrue
	assnFalse
)

func (a assnVal) String() string {
	switch a {
	case unassigned:
		return "unassigned"
	case assnTrue:
		return "true"
	case assnFalse:
		return "false"
	default:
		panic("unreached")
	}
}

// An Assignment is a partial mapping from variables to truth values. It
// is the mutable search state: Solve creates it fully unassigned, fills
// it in on the way down, and rolls it back literal by literal on the way
// up.
type Assignment struct {
	// values is indexed by variable id; index 0 is unused.
	values   []assnVal
	assigned int
}

func newAssignment(numVars int) *Assignment {
	return &Assignment{values: make([]assnVal, numVars+1)}
}

// Assigned reports whether lit's variable holds exactly lit's polarity.
// An unassigned variable matches neither polarity.
func (a *Assignment) Assigned(lit Literal) bool {
	return a.values[lit.Var] == lit.assn()
}

// Value returns the truth value recorded for variable v, and whether one
// is recorded at all.
func (a *Assignment) Value(v int) (value, ok bool) {
	switch a.values[v] {
	case assnTrue:
		return true, true
	case assnFalse:
		return false, true
	}
	return false, false
}

// Assign records lit's polarity for its variable, which must currently
// be unassigned.
func (a *Assignment) Assign(lit Literal) {
	if a.values[lit.Var] != unassigned {
		panic(fmt.Sprintf("assign of var %d, which is already %s", lit.Var, a.values[lit.Var]))
	}
	a.values[lit.Var] = lit.assn()
	a.assigned++
}

// Unassign clears the value of lit's variable, which must currently hold
// exactly lit's polarity.
func (a *Assignment) Unassign(lit Literal) {
	if a.values[lit.Var] != lit.assn() {
		panic(fmt.Sprintf("unassign of var %d, which is %s", lit.Var, a.values[lit.Var]))
	}
	a.values[lit.Var] = unassigned
	a.assigned--
}

// NextUnassigned returns the lowest-id unassigned variable as a positive
// literal. It panics if every variable is assigned; the solver never
// gets here without first checking the SAT terminal, which must hold by
// then.
func (a *Assignment) NextUnassigned() Literal {
	if a.assigned == len(a.values)-1 {
		panic("no unassigned variable left")
	}
	for v := 1; v < len(a.values); v++ {
		if a.values[v] == unassigned {
			return Literal{Var: v}
		}
	}
	panic("unreached")
}

// String renders the assignment in the solver's output format: one token
// per variable in ascending id order, the signed variable id when
// assigned or UNASSIGNED when not, terminated by a 0.
func (a *Assignment) String() string {
	var b strings.Builder
	for v := 1; v < len(a.values); v++ {
		switch a.values[v] {
		case assnTrue:
			b.WriteString(strconv.Itoa(v))
		case assnFalse:
			b.WriteString("-" + strconv.Itoa(v))
		default:
			b.WriteString("UNASSIGNED")
		}
		b.WriteByte(' ')
	}
	b.WriteByte('0')
	return b.String()
}

const verbose = false

type solver struct {
	formula *Formula
	assn    *Assignment

	numDecisions  int64
	numBacktracks int64
}

func newSolver(f *Formula) *solver {
	return &solver{
		formula: f,
		assn:    newAssignment(f.NumVars),
	}
}

// solve runs the recursive search. Each call is one node of the decision
// tree: terminal checks first, then a two-way branch on the lowest
// unassigned variable, positive polarity before negative. On failure the
// assignment is rolled back to the state the call found it in.
func (sv *solver) solve() bool {
	if sv.formula.satisfied(sv.assn) {
		if verbose {
			fmt.Println("satisfied")
			pretty.Println(sv.assn.values)
		}
		return true
	}
	if sv.formula.falsified(sv.assn) {
		if verbose {
			fmt.Printf("falsified | %s\n", sv.stateString())
		}
		return false
	}

	lit := sv.assn.NextUnassigned()
	sv.numDecisions++
	if verbose {
		fmt.Printf("assigning %s | %s\n", lit, sv.stateString())
	}
	sv.assn.Assign(lit)
	if sv.solve() {
		return true
	}
	sv.assn.Unassign(lit)
	sv.numBacktracks++

	neg := lit.Negate()
	if verbose {
		fmt.Printf("flipping to %s | %s\n", neg, sv.stateString())
	}
	sv.assn.Assign(neg)
	if sv.solve() {
		return true
	}
	sv.assn.Unassign(neg)
	sv.numBacktracks++
	return false
}

func (sv *solver) stateString() string {
	var b strings.Builder
	b.WriteByte('{')
	for v := 1; v < len(sv.assn.values); v++ {
		var s string
		if v > 1 {
			s = ", "
		}
		fmt.Fprintf(&b, "%s%d:%c", s, v, sv.assn.values[v].String()[0])
	}
	b.WriteByte('}')
	return b.String()
}
