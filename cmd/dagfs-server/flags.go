package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Fuonder/dagfs.git/internal/validation/filevalidation"
	"github.com/Fuonder/dagfs.git/internal/validation/numericvalidation"
)

var (
	ErrNotFullIP       = errors.New("given ip address and port incorrect")
	ErrInvalidIP       = errors.New("incorrect ip address")
	ErrInvalidPort     = errors.New("incorrect port number")
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	progName = "dagfs server"
	source   = "https://github.com/Fuonder/dagfs"
)

type NetAddress struct {
	IPAddr string
	Port   int
	isSet  bool
}

func (n *NetAddress) String() string {
	return fmt.Sprintf("%s:%d", n.IPAddr, n.Port)
}

func (n *NetAddress) Set(value string) error {
	values := strings.Split(value, ":")
	if len(values) != 2 {
		return fmt.Errorf("%w: \"%s\"", ErrNotFullIP, value)
	}
	n.IPAddr = values[0]
	if n.IPAddr == "" {
		return fmt.Errorf("%w: \"%s\"", ErrInvalidIP, values[0])
	}
	port, err := strconv.Atoi(values[1])
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("%w: \"%s\"", ErrInvalidPort, values[1])
	}
	n.Port = port
	n.isSet = true
	return nil
}

func (n *NetAddress) UnmarshalJSON(data []byte) error {
	var addr string
	if err := json.Unmarshal(data, &addr); err != nil {
		return err
	}
	return n.Set(addr)
}

// rawServerOptions is the layout of the JSON config file.
type rawServerOptions struct {
	NetAddr             NetAddress `json:"address"`
	StoreInterval       string     `json:"store_interval"`
	FileStoragePath     string     `json:"store_file"`
	BoltPath            string     `json:"bolt_path"`
	DatabaseDSN         string     `json:"database_dsn"`
	Restore             bool       `json:"restore"`
	LogLevel            string     `json:"log_level"`
	ShardSplitThreshold int64      `json:"shard_split_threshold"`
	HashKey             string     `json:"hash_key"`
	TrustedSubnet       string     `json:"trusted_subnet"`
}

type ServerOptions struct {
	NetAddr             NetAddress
	StoreInterval       time.Duration
	FileStoragePath     string
	BoltPath            string
	DatabaseDSN         string
	Restore             bool
	LogLevel            string
	ShardSplitThreshold int
	HashKey             string
	TrustedSubnet       string
}

func (o *ServerOptions) String() string {
	return fmt.Sprintf(
		"netAddr:%s, "+
			"storeInterval:%s, "+
			"fileStoragePath:%s, "+
			"boltPath:%s, "+
			"databaseDSN set:%t, "+
			"restore:%t, "+
			"logLevel:%s, "+
			"shardSplitThreshold:%d, "+
			"hashKey set:%t, "+
			"trustedSubnet:%s",
		o.NetAddr.String(),
		o.StoreInterval,
		o.FileStoragePath,
		o.BoltPath,
		o.DatabaseDSN != "",
		o.Restore,
		o.LogLevel,
		o.ShardSplitThreshold,
		o.HashKey != "",
		o.TrustedSubnet,
	)
}

func defaultRawOptions() rawServerOptions {
	return rawServerOptions{
		NetAddr:         NetAddress{IPAddr: "localhost", Port: 8080},
		StoreInterval:   "300s",
		FileStoragePath: "",
		Restore:         true,
		LogLevel:        "info",
	}
}

// ReadConfig applies defaults and then the JSON config file, if any.
func (o *ServerOptions) ReadConfig(from string) error {
	cfgFromFile := defaultRawOptions()

	if from != "" {
		if !filevalidation.CheckFilePresence(from) {
			return fmt.Errorf("config file %q not found", from)
		}
		file, err := os.Open(from)
		if err != nil {
			return fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfgFromFile); err != nil {
			return fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if err := o.FromRaw(&cfgFromFile); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (o *ServerOptions) FromRaw(raw *rawServerOptions) error {
	interval, err := time.ParseDuration(raw.StoreInterval)
	if err != nil {
		return fmt.Errorf("store_interval: %w", err)
	}
	if err := numericvalidation.ValidateNonNegativeInt64(int64(interval)); err != nil {
		return fmt.Errorf("store_interval: %w", err)
	}
	if err := numericvalidation.ValidateNonNegativeInt64(raw.ShardSplitThreshold); err != nil {
		return fmt.Errorf("shard_split_threshold: %w", err)
	}
	if err := validateSubnet(raw.TrustedSubnet); err != nil {
		return fmt.Errorf("trusted_subnet: %w", err)
	}

	o.NetAddr = raw.NetAddr
	o.StoreInterval = interval
	o.FileStoragePath = raw.FileStoragePath
	o.BoltPath = raw.BoltPath
	o.DatabaseDSN = raw.DatabaseDSN
	o.Restore = raw.Restore
	o.LogLevel = raw.LogLevel
	o.ShardSplitThreshold = int(raw.ShardSplitThreshold)
	o.HashKey = raw.HashKey
	o.TrustedSubnet = raw.TrustedSubnet
	return nil
}

func validateSubnet(cidr string) error {
	if cidr == "" {
		return nil
	}
	if _, _, err := net.ParseCIDR(cidr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// cliArgs holds the values given on the command line. Only flags that were
// actually passed override the config file.
type cliArgs struct {
	opts          ServerOptions
	storeInterval int64
	threshold     int64
	configFile    string
	set           map[string]bool
}

func (a *cliArgs) isSet(names ...string) bool {
	for _, n := range names {
		if a.set[n] {
			return true
		}
	}
	return false
}

// ReadArgv overrides options with the flags present in argv.
func (o *ServerOptions) ReadArgv(argv *cliArgs) error {
	if argv.opts.NetAddr.isSet {
		o.NetAddr = argv.opts.NetAddr
	}
	if argv.isSet("i") {
		if err := numericvalidation.ValidateNonNegativeInt64(argv.storeInterval); err != nil {
			return fmt.Errorf("flag -i: %w", err)
		}
		o.StoreInterval = time.Duration(argv.storeInterval) * time.Second
	}
	if argv.isSet("f") {
		o.FileStoragePath = argv.opts.FileStoragePath
	}
	if argv.isSet("b") {
		o.BoltPath = argv.opts.BoltPath
	}
	if argv.isSet("d") {
		o.DatabaseDSN = argv.opts.DatabaseDSN
	}
	if argv.isSet("r") {
		o.Restore = argv.opts.Restore
	}
	if argv.isSet("l") {
		o.LogLevel = argv.opts.LogLevel
	}
	if argv.isSet("s") {
		if err := numericvalidation.ValidateNonNegativeInt64(argv.threshold); err != nil {
			return fmt.Errorf("flag -s: %w", err)
		}
		o.ShardSplitThreshold = int(argv.threshold)
	}
	if argv.isSet("k") {
		o.HashKey = argv.opts.HashKey
	}
	if argv.isSet("t") {
		if err := validateSubnet(argv.opts.TrustedSubnet); err != nil {
			return fmt.Errorf("flag -t: %w", err)
		}
		o.TrustedSubnet = argv.opts.TrustedSubnet
	}
	return nil
}

// LoadENV overrides options with environment variables; they win over both
// the config file and the flags.
func (o *ServerOptions) LoadENV(getenv func(string) string) error {
	if envRunAddr := getenv("ADDRESS"); envRunAddr != "" {
		if err := o.NetAddr.Set(envRunAddr); err != nil {
			return fmt.Errorf("ADDRESS: %w", err)
		}
	}
	if envInterval := getenv("STORE_INTERVAL"); envInterval != "" {
		if err := numericvalidation.ValidateNonNegativeString(envInterval); err != nil {
			return fmt.Errorf("STORE_INTERVAL: %w", err)
		}
		secs, _ := strconv.ParseInt(envInterval, 10, 64)
		o.StoreInterval = time.Duration(secs) * time.Second
	}
	if envPath := getenv("FILE_STORAGE_PATH"); envPath != "" {
		o.FileStoragePath = envPath
	}
	if envBolt := getenv("BOLT_PATH"); envBolt != "" {
		o.BoltPath = envBolt
	}
	if envDSN := getenv("DATABASE_DSN"); envDSN != "" {
		o.DatabaseDSN = envDSN
	}
	if envRestore := getenv("RESTORE"); envRestore != "" {
		restore, err := strconv.ParseBool(envRestore)
		if err != nil {
			return fmt.Errorf("RESTORE: %w: %q", ErrInvalidArgument, envRestore)
		}
		o.Restore = restore
	}
	if envLevel := getenv("LOG_LEVEL"); envLevel != "" {
		o.LogLevel = envLevel
	}
	if envThreshold := getenv("SHARD_SPLIT_THRESHOLD"); envThreshold != "" {
		if err := numericvalidation.ValidateNonNegativeString(envThreshold); err != nil {
			return fmt.Errorf("SHARD_SPLIT_THRESHOLD: %w", err)
		}
		v, _ := strconv.Atoi(envThreshold)
		o.ShardSplitThreshold = v
	}
	if envHashKey := getenv("KEY"); envHashKey != "" {
		o.HashKey = envHashKey
	}
	if envSubnet := getenv("TRUSTED_SUBNET"); envSubnet != "" {
		if err := validateSubnet(envSubnet); err != nil {
			return fmt.Errorf("TRUSTED_SUBNET: %w", err)
		}
		o.TrustedSubnet = envSubnet
	}
	return nil
}

// parseFlags builds the options: defaults < config file < flags < ENV.
func parseFlags(args []string, getenv func(string) string, output io.Writer) (ServerOptions, error) {
	var (
		opts ServerOptions
		cli  = cliArgs{set: make(map[string]bool)}
	)

	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s\nSource code:\t%s\nUsage of %s:\n", progName, source, progName)
		fs.PrintDefaults()
	}
	fs.Var(&cli.opts.NetAddr, "a", "ip and port of server in format <ip>:<port>")
	fs.Int64Var(&cli.storeInterval, "i", 0, "interval of publishing pending roots in secs, 0 publishes only on flush and shutdown")
	fs.StringVar(&cli.opts.FileStoragePath, "f", "", "path to JSON blocks file")
	fs.StringVar(&cli.opts.BoltPath, "b", "", "path to bolt database file")
	fs.StringVar(&cli.opts.DatabaseDSN, "d", "", "PostgreSQL connection string")
	fs.BoolVar(&cli.opts.Restore, "r", true, "restore blocks from the JSON file on start")
	fs.StringVar(&cli.opts.LogLevel, "l", "info", "log level")
	fs.Int64Var(&cli.threshold, "s", 0, "entry count above which a directory is sharded, 0 for the default")
	fs.StringVar(&cli.opts.HashKey, "k", "", "key for hash")
	fs.StringVar(&cli.opts.TrustedSubnet, "t", "", "trusted subnet in CIDR notation")
	fs.StringVar(&cli.configFile, "config", "", "Path to config file")
	fs.StringVar(&cli.configFile, "c", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) { cli.set[f.Name] = true })

	if envConfig := getenv("CONFIG"); envConfig != "" {
		cli.configFile = envConfig
	}

	if err := opts.ReadConfig(cli.configFile); err != nil {
		return opts, err
	}
	if err := opts.ReadArgv(&cli); err != nil {
		return opts, err
	}
	if err := opts.LoadENV(getenv); err != nil {
		return opts, fmt.Errorf("failed to load ENV flags: %w", err)
	}
	return opts, nil
}
