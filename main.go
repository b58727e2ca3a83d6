package main

import (
	"github.com/priyxstudio/treesize/cmd"
)

func main() {
	cmd.Execute()
}
