package main

import "github.com/QingYi-Studio/tylddb/cmd"

func main() {
	cmd.Execute()
}
