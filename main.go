package main

import "dataset-manifest/cmd"

func main() {
	cmd.Execute()
}
