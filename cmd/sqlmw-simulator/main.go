// Command sqlmw-simulator drives a deterministic, seeded model of pool
// checkout/transaction/query traffic and reports whether the pool/connection
// invariants ever broke - a regression harness for the pool and transaction
// state machine, not part of the core test surface.
package main

import "github.com/sqlmw/go-sql-middleware/cmd/sqlmw-simulator/simulator"

func main() {
	simulator.Execute()
}
