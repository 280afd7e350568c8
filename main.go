package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		var pe *invalidPortError
		if errors.As(err, &pe) {
			fmt.Println(pe.Error())
			os.Exit(1)
		}
		log.Fatalf("config failure: %v", err)
	}

	srv, err := newServer(cfg)
	if err != nil {
		log.Fatalf("start failure: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	srv.printBanner(os.Stdout)
	if err := srv.serve(stop, os.Stdout); err != nil {
		log.Fatalf("serve failure: %v", err)
	}
}
