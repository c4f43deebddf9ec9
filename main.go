package main

import "github.com/jsphweid/midimash/cmd"

func main() {
	cmd.Execute()
}
