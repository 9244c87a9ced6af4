// Package flagx lets several loaders share os.Args: each one picks out only
// the flags it defines and ignores the rest.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// filter keeps the flags named in spec together with their values. spec
// maps a spelled flag ("-a", "--a") to whether it is boolean. A value is
// taken either as "-flag value" or "-flag=value"; boolean flags and tokens
// starting with "-" never consume the next token.
func filter(args []string, spec map[string]bool) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := spec[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		isBool, ok := spec[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if !isBool && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

type boolFlag interface {
	IsBoolFlag() bool
}

// ParseKnown parses into fs only those args that name a flag defined on fs,
// in either the -name or --name spelling.
func ParseKnown(fs *flag.FlagSet, args []string) error {
	spec := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		bf, ok := f.Value.(boolFlag)
		isBool := ok && bf.IsBoolFlag()
		spec["-"+f.Name] = isBool
		spec["--"+f.Name] = isBool
	})
	return fs.Parse(filter(args, spec))
}

// JsonConfigFlags returns the config file path given with -c or -config,
// or "" when neither is present. Other arguments are ignored.
func JsonConfigFlags() string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = ParseKnown(fs, os.Args[1:])

	return config
}
