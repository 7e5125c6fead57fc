package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/procs"
)

// openFinder reads only the process table, so pids and name work without
// a display.
func openFinder() (*procs.Finder, error) {
	res, err := loadConfig("")
	if err != nil {
		return nil, err
	}
	src, err := platform.OpenProcesses()
	if err != nil {
		return nil, err
	}
	return procs.NewFinder(src, newLogger(res.Config.LogLevel)), nil
}

func runPIDs(args []string) int {
	fs := flag.NewFlagSet("pids", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	descendants := fs.Bool("descendants", false, "Include processes started by the matches")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: winarrange pids [--descendants] <name>")
		return 2
	}

	finder, err := openFinder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	pids, err := finder.FindByName(fs.Arg(0))
	if errors.Is(err, procs.ErrNoProcessesMatched) {
		fmt.Fprintf(os.Stderr, "no running process matches %q\n", fs.Arg(0))
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *descendants {
		desc, err := finder.Descendants(pids)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		pids = pids.Union(desc)
	}
	for _, pid := range pids.Sorted() {
		fmt.Println(pid)
	}
	return 0
}

func runName(args []string) int {
	if len(args) != 1 || isHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage: winarrange name <pid>")
		return 2
	}
	pid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid pid %q\n", args[0])
		return 2
	}

	finder, err := openFinder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	name, err := finder.NameOf(uint32(pid))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(name)
	return 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	descendants := fs.Bool("descendants", false, "Include windows of processes started by the matches")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: winarrange windows [--descendants] <name>")
		return 2
	}

	sess, err := openSession("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sess.Close()

	windows, _, err := sess.engine.WindowsForProgram(fs.Arg(0), *descendants)
	if errors.Is(err, procs.ErrNoProcessesMatched) {
		fmt.Fprintf(os.Stderr, "no running process matches %q\n", fs.Arg(0))
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, w := range windows {
		fmt.Printf("0x%x\n", uintptr(w))
	}
	return 0
}
