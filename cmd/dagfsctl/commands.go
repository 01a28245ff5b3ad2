package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Fuonder/dagfs.git/internal/buildinfo"
	"github.com/Fuonder/dagfs.git/internal/client"
	"github.com/Fuonder/dagfs.git/internal/models"
)

type command struct {
	name string
	help string
	run  func(ctx context.Context, c *client.Client, args []string, e env) error
}

var commands []command

func init() {
	commands = []command{
		{"chmod", "[-R] [-flush] MODE PATH  change mode bits", runChmod},
		{"stat", "PATH  show an entry", runStat},
		{"ls", "[PATH]  list a directory", runLs},
		{"mkdir", "[-p] [-mode MODE] [-flush] PATH  create a directory", runMkdir},
		{"write", "[-create] [-mode MODE] [-flush] [-shard-threshold N] PATH  replace file content from stdin", runWrite},
		{"touch", "[-flush] PATH  create an empty file or update mtime", runTouch},
		{"read", "PATH  print file content", runRead},
		{"flush", "publish the pending root", runFlush},
		{"statfs", "show store and disk usage", runStatFS},
		{"version", "show client and server build", runVersion},
	}
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func subFlags(name string, e env) *flag.FlagSet {
	fs := flag.NewFlagSet(progName+" "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func positional(fs *flag.FlagSet, want int) ([]string, error) {
	if fs.NArg() != want {
		return nil, fmt.Errorf("%w: expected %d argument(s), got %d", ErrUsage, want, fs.NArg())
	}
	return fs.Args(), nil
}

// modeSpec reads an optional -mode value; empty means "server default".
func modeSpec(v string) *models.ModeSpec {
	if v == "" {
		return nil
	}
	return &models.ModeSpec{Text: v}
}

func printRoot(w io.Writer, r models.RootResponse) {
	state := "flushed"
	if r.Pending {
		state = "pending"
	}
	fmt.Fprintf(w, "root %s version %d (%s)\n", r.Root, r.Version, state)
}

func runChmod(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := subFlags("chmod", e)
	recursive := fs.Bool("R", false, "change the whole subtree")
	flush := fs.Bool("flush", false, "publish the new root durably")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pos, err := positional(fs, 2)
	if err != nil {
		return err
	}
	r, err := c.Chmod(ctx, models.ChmodRequest{
		Path:      pos[1],
		Mode:      models.ModeSpec{Text: pos[0]},
		Recursive: *recursive,
		Flush:     *flush,
	})
	if err != nil {
		return err
	}
	printRoot(e.stdout, r)
	return nil
}

func runStat(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := subFlags("stat", e)
	if err := fs.Parse(args); err != nil {
		return err
	}
	pos, err := positional(fs, 1)
	if err != nil {
		return err
	}
	st, err := c.Stat(ctx, pos[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s\n", pos[0])
	fmt.Fprintf(e.stdout, "CID:    %s\n", st.CID)
	fmt.Fprintf(e.stdout, "Type:   %s\n", st.Type)
	fmt.Fprintf(e.stdout, "Mode:   %s (%s)\n", st.Mode, st.Mode.Symbolic())
	fmt.Fprintf(e.stdout, "Size:   %d\n", st.Size)
	fmt.Fprintf(e.stdout, "Blocks: %d\n", st.Blocks)
	fmt.Fprintf(e.stdout, "MTime:  %s\n", st.MTime.Format(time.RFC3339Nano))
	return nil
}

func runLs(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := subFlags("ls", e)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := "/"
	switch fs.NArg() {
	case 0:
	case 1:
		path = fs.Arg(0)
	default:
		return fmt.Errorf("%w: expected at most one path", ErrUsage)
	}
	entries, err := c.Ls(ctx, path)
	if err != nil {
		return err
	}
	for _, en := range entries {
		kind := "-"
		if en.Type.IsDir() {
			kind = "d"
		}
		fmt.Fprintf(e.stdout, "%s%s %s %8d %s\n", kind, en.Mode.Symbolic(), en.Mode, en.Size, en.Name)
	}
	return nil
}

func runMkdir(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := subFlags("mkdir", e)
	parents := fs.Bool("p", false, "create missing parents, no error if the directory exists")
	mode := fs.String("mode", "", "octal mode of the new directory")
	flush := fs.Bool("flush", false, "publish the new root durably")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pos, err := positional(fs, 1)
	if err != nil {
		return err
	}
	r, err := c.Mkdir(ctx, models.MkdirRequest{
		Path:    pos[0],
		Parents: *parents,
		Mode:    modeSpec(*mode),
		Flush:   *flush,
	})
	if err != nil {
		return err
	}
	printRoot(e.stdout, r)
	return nil
}

func runWrite(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := subFlags("write", e)
	create := fs.Bool("create", false, "create the file if it is missing")
	mode := fs.String("mode", "", "octal mode of the file")
	flush := fs.Bool("flush", false, "publish the new root durably")
	threshold := fs.Int("shard-threshold", -1, "entry count above which the parent directory is sharded, -1 for the server default")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pos, err := positional(fs, 1)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(e.stdin)
	if err != nil {
		return fmt.Errorf("can not read stdin: %w", err)
	}
	req := models.WriteRequest{
		Path:   pos[0],
		Data:   data,
		Create: *create,
		Mode:   modeSpec(*mode),
		Flush:  *flush,
	}
	if *threshold >= 0 {
		req.ShardSplitThreshold = threshold
	}
	r, err := c.Write(ctx, req)
	if err != nil {
		return err
	}
	printRoot(e.stdout, r)
	return nil
}

func runTouch(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := subFlags("touch", e)
	flush := fs.Bool("flush", false, "publish the new root durably")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pos, err := positional(fs, 1)
	if err != nil {
		return err
	}
	r, err := c.Touch(ctx, models.TouchRequest{Path: pos[0], Flush: *flush})
	if err != nil {
		return err
	}
	printRoot(e.stdout, r)
	return nil
}

func runRead(ctx context.Context, c *client.Client, args []string, e env) error {
	fs := subFlags("read", e)
	if err := fs.Parse(args); err != nil {
		return err
	}
	pos, err := positional(fs, 1)
	if err != nil {
		return err
	}
	data, err := c.Read(ctx, pos[0])
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(data)
	return err
}

func runFlush(ctx context.Context, c *client.Client, args []string, e env) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: flush takes no arguments", ErrUsage)
	}
	r, err := c.Flush(ctx)
	if err != nil {
		return err
	}
	printRoot(e.stdout, r)
	return nil
}

func runStatFS(ctx context.Context, c *client.Client, args []string, e env) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: statfs takes no arguments", ErrUsage)
	}
	st, err := c.StatFS(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Root:    %s\n", st.Root)
	fmt.Fprintf(e.stdout, "Version: %d\n", st.Version)
	fmt.Fprintf(e.stdout, "Pending: %t\n", st.Pending)
	fmt.Fprintf(e.stdout, "Blocks:  %d\n", st.Blocks)
	fmt.Fprintf(e.stdout, "Disk:    %d/%d bytes used (%.1f%%)\n", st.UsedBytes, st.TotalBytes, st.UsedPct)
	return nil
}

func runVersion(ctx context.Context, c *client.Client, args []string, e env) error {
	local := buildinfo.NewBuildInfo(buildVersion, buildCommit, buildDate, nil)
	fmt.Fprintf(e.stdout, "Client:\n%s", local)
	remote, err := c.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Server:\n%s", &remote)
	return nil
}
