package main

import "github.com/vibast-solutions/ms-go-payment-orchestration/cmd"

func main() {
	cmd.Execute()
}
