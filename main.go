package main

import (
	"flag"
	"log"
)

func main() {
	steps := flag.Int("steps", 600, "simulation steps to run")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	game, err := NewGame(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := game.Run(*steps); err != nil {
		log.Fatal(err)
	}
}
