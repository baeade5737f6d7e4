// Package flagx lets several independent flag sets share os.Args: each
// parser keeps only the flags it owns and ignores the rest.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// flagName strips one or two leading dashes. The flag package treats -x and
// --x alike, so filtering does too.
func flagName(arg string) string {
	return strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
}

// FilterArgs keeps the arguments naming one of allowedFlags, in order.
// A value is kept either inline (-c=conf.json) or as the following argument
// when that argument does not start with a dash (-c conf.json).
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		if _, ok := allowed[flagName(name)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags returns the path given to -c or -config in os.Args, or ""
// when neither is present.
func JsonConfigFlags() string {
	return JsonConfigFlagsFrom(os.Args[1:])
}

// JsonConfigFlagsFrom is JsonConfigFlags over an explicit argument list.
func JsonConfigFlagsFrom(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "path to config file")
	fs.StringVar(&config, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}
