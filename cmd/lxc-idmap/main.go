package main

import (
	"fmt"
	"os"

	"github.com/toonarmy14/lxc-idmap-v2/idmapcmd"
)

func main() {
	err := idmapcmd.IDMapperCommand.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
