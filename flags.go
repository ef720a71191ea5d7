package reqlog

import (
	"github.com/ridge/reqlog/thttp"
	"github.com/spf13/pflag"
)

// Flags holds the command line settings of a Logger
type Flags struct {
	exclude     []string
	maxBody     int
	trustProxy  bool
	excludeFile string
}

// RegisterFlags adds the Logger flags to fs
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringSliceVar(&f.exclude, "log-exclude", nil, "Request fields left out of logs: params, query, body, headers, cookies, ip")
	fs.IntVar(&f.maxBody, "log-max-body", thttp.DefaultMaxBodyLen, "Maximum number of logged body bytes")
	fs.BoolVar(&f.trustProxy, "trust-proxy", false, "Take the client IP from proxy headers")
	fs.StringVar(&f.excludeFile, "log-exclude-file", "", "JSON file with request field exclusions, reloaded on change")
	return f
}

// Config returns the Logger configuration set by the flags. Fails with
// ErrUnknownField if --log-exclude names an unknown field.
func (f *Flags) Config() (Config, error) {
	exclusions := make(map[string]bool, len(f.exclude))
	for _, name := range f.exclude {
		exclusions[name] = true
	}
	sel, err := DefaultSelector().ExcludeNames(exclusions)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Selector:          sel,
		MaxBodyLen:        f.maxBody,
		TrustProxyHeaders: f.trustProxy,
	}, nil
}

// ExcludeFile returns the path of the exclusions file to watch, if any
func (f *Flags) ExcludeFile() string {
	return f.excludeFile
}
