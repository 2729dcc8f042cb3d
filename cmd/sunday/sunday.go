package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/akorn/sunday"
)

var (
	timing = flag.Bool("t", false, "print elapsed solve time and search counters to stderr")
	verify = flag.Bool("verify", false, "double-check a satisfying assignment before printing it")
)

func usage() {
	fmt.Fprint(os.Stderr, `Sunday: a minimal DPLL SAT solver.

Usage:

  sunday [flags] input.cnf

Sunday reads a single problem specification in the DIMACS CNF format.
It writes a single line of output: either the satisfying assignment, one
token per variable in ascending order (the signed variable id, or
UNASSIGNED if the search never needed to fix that variable) terminated
by a 0, or else the word UNSATISFIABLE.

Flags:

`)
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("expected exactly one input file; run with -h for usage")
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	formula, err := sunday.ParseDIMACS(f)
	if err != nil {
		log.Fatalln("Error reading input file as DIMACS CNF:", err)
	}

	start := time.Now()
	assn, stats, ok := formula.Solve()
	if *timing {
		fmt.Fprintf(os.Stderr, "solved in %s (%d decisions, %d backtracks)\n",
			time.Since(start), stats["num decisions"], stats["num backtracks"])
	}
	if !ok {
		fmt.Println("UNSATISFIABLE")
		return
	}
	if *verify && !formula.Verify(assn) {
		log.Fatal("internal error: solver returned a non-satisfying assignment")
	}
	fmt.Println(assn)
}
