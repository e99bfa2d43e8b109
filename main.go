package main

import "github.com/umsys/user-management-console/cmd"

func main() {
	cmd.Execute()
}
