// Command confrule evaluates a rules document against one or more JSON/YAML
// data documents, per spec.md's external CLI surface (spec §6). The engine
// itself (rules/parser, loader, eval) is a library; this binary is the
// peripheral front end spec §1 describes as an external collaborator.
package main

import (
	"os"

	"github.com/confrule/confrule/cmd/confrule/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
