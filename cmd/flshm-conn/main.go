// Command flshm-conn lists and edits the LocalConnection listener registry.
//
//	flshm-conn [-per-user] [-format f] list
//	flshm-conn [-per-user] add name version sandbox
//	flshm-conn [-per-user] remove name
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

func usage() {
	fmt.Printf("%s [-per-user] list | add name version sandbox | remove name\n", os.Args[0])
}

func run() int {
	cfg, log := cli.Setup()
	defer log.Sync()

	perUser := flag.Bool("per-user", cfg.PerUser, "use the per-user channel")
	format := flag.String("format", cli.FormatText, "list output format: text, json, yaml or toml")
	flag.Parse()
	if !cli.ValidFormat(*format) {
		fmt.Printf("ERROR: format: %s\n", *format)
		return 1
	}
	args := flag.Args()
	if len(args) == 0 {
		usage()
		return 1
	}

	var op func(*flshm.Segment) error
	switch {
	case args[0] == "list" && len(args) == 1:
		op = func(seg *flshm.Segment) error {
			return cli.FormatConnections(os.Stdout, seg.Connections(), *format)
		}
	case args[0] == "add" && len(args) == 4:
		if !flshm.ConnectionNameValid(args[1]) {
			fmt.Printf("ERROR: name: %s\n", args[1])
			return 1
		}
		version, err := flshm.ParseVersion(args[2])
		if err != nil {
			fmt.Printf("ERROR: version: %s\n", args[2])
			return 1
		}
		sandbox, err := flshm.ParseSecurity(args[3])
		if err != nil {
			fmt.Printf("ERROR: sandbox: %s\n", args[3])
			return 1
		}
		c := flshm.Connection{Name: args[1], Version: version, Sandbox: sandbox}
		op = func(seg *flshm.Segment) error { return seg.AddConnection(c) }
	case args[0] == "remove" && len(args) == 2:
		c := flshm.Connection{Name: args[1]}
		op = func(seg *flshm.Segment) error { return seg.RemoveConnection(c) }
	default:
		usage()
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

	if err := op(seg); err != nil {
		log.Error("registry update failed", zap.String("op", args[0]), zap.Error(err))
		fmt.Printf("FAILED: flshm_connection_%s\n", args[0])
		return 1
	}
	return 0
}
