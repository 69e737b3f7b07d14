// Command flshm-write writes a LocalConnection message from its arguments.
package main

import (
	"errors"
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
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "%s [-per-user] %s\n", os.Args[0], cli.WriteUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < cli.WriteArgs {
		fmt.Printf("%s %s\n", os.Args[0], cli.WriteUsage)
		return 1
	}
	msg, err := cli.ParseWriteArgs(flag.Args())
	if err != nil {
		var argErr *cli.ArgError
		if errors.As(err, &argErr) {
			fmt.Printf("ERROR: %s\n", argErr)
		} else {
			fmt.Printf("ERROR: %v\n", err)
		}
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

	if err := seg.Write(msg); err != nil {
		log.Error("write failed", zap.Error(err), zap.Uint32("tick", msg.Tick))
		fmt.Println("FAILED: flshm_message_write")
		return 1
	}
	log.Debug("message written", zap.Uint32("tick", msg.Tick), zap.String("method", msg.Method))
	return 0
}
