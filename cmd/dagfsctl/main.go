// Command dagfsctl drives a dagfs server: chmod, stat, ls, mkdir, write,
// touch, read, flush, statfs and version.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Fuonder/dagfs.git/internal/buildinfo"
	"github.com/Fuonder/dagfs.git/internal/client"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"go.uber.org/zap"
)

var (
	buildVersion = buildinfo.NotAvailable
	buildCommit  = buildinfo.NotAvailable
	buildDate    = buildinfo.NotAvailable
)

const progName = "dagfsctl"

var ErrUsage = errors.New("usage error")

type globalOptions struct {
	addr     string
	hashKey  string
	realIP   string
	retries  int
	logLevel string
}

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	code := run(ctx, os.Args[1:], env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	})
	stop()
	os.Exit(code)
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n  %s [flags] <command> [args]\n\nCommands:\n", progName, progName)
		for _, c := range commands {
			fmt.Fprintf(fs.Output(), "  %-8s %s\n", c.name, c.help)
		}
		fmt.Fprintf(fs.Output(), "\nFlags:\n")
		fs.PrintDefaults()
	}
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, e env) int {
	var opts globalOptions
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = usage(fs)
	fs.StringVar(&opts.addr, "a", "localhost:8080", "server address in format <host>:<port>")
	fs.StringVar(&opts.hashKey, "k", "", "key for hash")
	fs.StringVar(&opts.realIP, "ip", "", "value of the X-Real-IP header")
	fs.IntVar(&opts.retries, "retries", 3, "retries on connection errors")
	fs.StringVar(&opts.logLevel, "l", "error", "log level")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if v := e.getenv("ADDRESS"); v != "" {
		opts.addr = v
	}
	if v := e.getenv("KEY"); v != "" {
		opts.hashKey = v
	}

	if err := logger.Initialize(opts.logLevel); err != nil {
		fmt.Fprintln(e.stderr, err)
		return 2
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(e.stderr, "unknown command %q\n", name)
		fs.Usage()
		return 2
	}

	c := client.New(baseURL(opts.addr), client.Options{
		HashKey:    opts.hashKey,
		RealIP:     opts.realIP,
		RetryCount: opts.retries,
	})
	if err := cmd.run(ctx, c, rest, e); err != nil {
		logger.Log.Debug("command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintf(e.stderr, "%s %s: %v\n", progName, name, err)
		if errors.Is(err, ErrUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		return 1
	}
	return 0
}

func baseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	return "http://" + addr
}
