package main

import (
	"log"

	"github.com/fleetops/fleetsched/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("fleetsched: %v", err)
	}
}
