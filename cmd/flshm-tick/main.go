// Command flshm-tick prints the tick of the pending LocalConnection message.
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
	flag.Parse()

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
	tick := seg.Tick()
	if err := seg.Unlock(); err != nil {
		log.Warn("unlock failed", zap.Error(err))
	}

	fmt.Printf("tick: %d\n", tick)
	return 0
}
