package shell

import "strings"

// bindOptionalValue rewrites "-b VALUE" and "--button VALUE" as
// "--button=VALUE" for a flag whose value is optional. pflag only takes
// an optional value written with "=", while a following word that is not
// a flag is meant as the value.
func bindOptionalValue(args []string, short, long string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if (arg == "-"+short || arg == "--"+long) && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, "--"+long+"="+args[i+1])
			i++
			continue
		}
		out = append(out, arg)
	}
	return out
}
