package main

import "github.com/chrisdamba/vendorcast/cmd"

func main() {
	cmd.Execute()
}
