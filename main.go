package main

import (
	"log"

	"github.com/spirax/interview-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
