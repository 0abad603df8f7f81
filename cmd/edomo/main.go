// edomo shows home automation readings on e-paper panel.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edomo/edomo/cmd/edomo/run"
	"github.com/edomo/edomo/cmd/edomo/subcmd"
	"github.com/edomo/edomo/internal/state"
	state_new "github.com/edomo/edomo/internal/state/new"
	"github.com/edomo/edomo/internal/tele"
	"github.com/edomo/edomo/log2"
	"github.com/mattn/go-isatty"
)

var log = log2.NewStderr(log2.LInfo)

// set by linker -X main.BuildVersion
var BuildVersion string = "unknown"

var modules = []subcmd.Mod{
	run.RunMod,
	run.OnceMod,
	run.RenderMod,
}

func main() {
	flagConfig := flag.String("config", "", "HCL config file, compiled-in defaults when empty")
	flagDebug := flag.Bool("debug", false, "debug log level")
	flag.Usage = usage
	flag.Parse()

	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	} else {
		// assume systemd journal, it adds timestamps
		log.SetFlags(log2.LServiceFlags)
	}
	if *flagDebug {
		log.SetLevel(log2.LDebug)
	}

	mod, err := subcmd.Parse(flag.Arg(0), modules)
	if err != nil {
		usage()
		log.Fatal(err)
	}

	ctx, g := state_new.NewContext(log, tele.New())
	g.BuildVersion = BuildVersion

	config := state.DefaultConfig()
	if *flagConfig != "" {
		config = state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Infof("signal=%v stopping after current cycle", sig)
		g.Stop()
	}()

	if err := mod.Main(ctx, config, flag.Args()[1:]); err != nil {
		g.Fatal(err, "command=%s", mod.Name)
	}
	g.StopWait(5 * time.Second)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [-debug] command [args]\ncommands:\n", os.Args[0])
	for _, m := range modules {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-8s %s\n", m.Name, m.Usage)
	}
	flag.PrintDefaults()
}
