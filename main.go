package main

import (
	"log"

	"github.com/sjzar/fluffy/cmd/fluffy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	fluffy.Execute()
}
