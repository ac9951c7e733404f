package build

import (
	"os"
	"regexp"
	"runtime"
	"strings"
)

// Shell enumerates the command shells arguments may be re-quoted for. The
// quoting functions never detect the shell themselves; callers pass it in.
type Shell int

const (
	ShellBash Shell = iota
	ShellCmd
	ShellPowershell
)

// Known-safe character classes per shell family. Arguments matching these
// pass through unquoted.
var (
	cmdSafeChars   = regexp.MustCompile(`^[a-zA-Z0-9.,_+=:;@()-]*$`)
	pwrSafeChars   = regexp.MustCompile(`^[a-zA-Z0-9.,_+=:;@()-]*$`)
	shellSafeChars = regexp.MustCompile(`^[a-zA-Z0-9._+=:@%/-]*$`)

	cmdSpecialChars = regexp.MustCompile(`([()!^<>&|% ])`)
)

// CurrentShell returns the shell kind of the host platform.
func CurrentShell() Shell {
	if runtime.GOOS == "windows" {
		if strings.Contains(strings.ToLower(os.Getenv("PSModulePath")), "powershell") {
			return ShellPowershell
		}
		return ShellCmd
	}
	return ShellBash
}

// EscapeArguments quotes a list the portable way (the POSIX single-quote
// form), independent of the host shell. Artifact metadata uses this so it
// stays interpretable on any platform.
func EscapeArguments(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = EscapeUnixArgument(a)
	}
	return out
}

// EscapeShellArguments quotes a list for one specific shell.
func EscapeShellArguments(shell Shell, args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = EscapeShellArgument(shell, a)
	}
	return out
}

// EscapeShellArgument quotes one argument for the given shell.
func EscapeShellArgument(shell Shell, arg string) string {
	switch shell {
	case ShellCmd:
		return EscapeCmdArgument(arg)
	case ShellPowershell:
		return EscapePowershellArgument(arg)
	default:
		return EscapeUnixArgument(arg)
	}
}

// EscapeUnixArgument wraps in single quotes, splicing embedded single
// quotes out through a quoted-escape sequence.
func EscapeUnixArgument(arg string) string {
	if shellSafeChars.MatchString(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// EscapeCmdArgument caret-escapes the command interpreter's special
// characters and wraps the result in caret-quoted double quotes.
func EscapeCmdArgument(arg string) string {
	if cmdSafeChars.MatchString(arg) {
		return arg
	}
	arg = cmdSpecialChars.ReplaceAllString(arg, "^$1")
	arg = strings.ReplaceAll(arg, `"`, `\^"`)
	return `^"` + arg + `^"`
}

// EscapePowershellArgument doubles embedded single quotes inside a
// single-quoted wrap.
func EscapePowershellArgument(arg string) string {
	if pwrSafeChars.MatchString(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", "''") + "'"
}

// EscapeArgsFileArgument is the separate mode used only when writing
// arguments to an external args file: backslash-escape quotes and
// backslashes inside a double-quoted wrap.
func EscapeArgsFileArgument(arg string) string {
	if shellSafeChars.MatchString(arg) {
		return arg
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range arg {
		if r == '"' || r == '\'' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}
