package main

import (
	"fmt"
	"os"

	"github.com/brinda-08/Quiz/cmd/quizctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
