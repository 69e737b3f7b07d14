// Command flshm-read prints the pending LocalConnection message.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fantao963/flshm"
	"github.com/fantao963/flshm/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, log := cli.Setup()
	defer log.Sync()

	perUser := flag.Bool("per-user", cfg.PerUser, "use the per-user channel")
	clearMsg := flag.Bool("clear", false, "clear the message after reading it")
	format := flag.String("format", cli.FormatText, "output format: text, json, yaml or toml")
	flag.Parse()

	if !cli.ValidFormat(*format) {
		fmt.Printf("ERROR: format: %s\n", *format)
		return 1
	}

	seg, err := flshm.Open(*perUser)
	if err != nil {
		log.Error("open failed", zap.Error(err))
		fmt.Println("FAILED: flshm_open")
		return 1
	}
	defer seg.Close()

	if err := seg.Lock(); err != nil {
		log.Error("lock failed", zap.Error(err))
		fmt.Println("FAILED: flshm_lock")
		return 1
	}
	defer seg.Unlock()

	read := seg.Read
	if *clearMsg {
		// Consume clears undecodable messages too.
		read = seg.Consume
	}
	msg, err := read()
	if err != nil {
		log.Error("read failed", zap.Error(err))
		fmt.Println("FAILED: flshm_message_read")
		return 1
	}
	if msg == nil {
		fmt.Println("tick: 0")
		return 0
	}
	if err := cli.FormatMessage(os.Stdout, msg, *format); err != nil {
		log.Error("print failed", zap.Error(err))
		return 1
	}
	return 0
}
