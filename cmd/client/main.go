package main

import "ssksadmin/cmd/client/cmd"

func main() {
	cmd.Execute()
}
