// Package dpkg classifies and reformats the line output of a dpkg-style
// package manager: known noise is suppressed, operational notices are
// retained for the end-of-run summary, and configuration-file conflict
// prompts are detected so the multiplexer can hand the terminal over.
package dpkg

// Lines matching one of these substrings carry no information the live
// display needs; they are suppressed but still reach the debug log.
var spam = []string{
	"(Reading database",
	"files and directories currently installed.)",
	"Selecting previously unselected package",
	"Preparing to unpack",
	"Extracting templates from packages:",
	"Preconfiguring packages",
	"Reloading AppArmor profiles",
	"Nothing to fetch",
}

// Operationally significant lines, kept for the Notices block printed after
// the child exits.
var notices = [][]byte{
	[]byte("A reboot is required to replace the running dbus-daemon."),
	[]byte("Please reboot the system when convenient."),
	[]byte("The currently running kernel version is not the expected kernel version"),
	[]byte("so you should consider rebooting."),
	[]byte("Please remove."),
	[]byte("Warning:"),
}

// needrestart and friends repaint these lines in place; in verbose mode they
// are written through untouched instead of being reformatted.
var verbosePassthrough = [][]byte{
	[]byte("Scanning processes..."),
	[]byte("Scanning candidates..."),
	[]byte("Scanning linux images..."),
	[]byte("Extracting templates from packages"),
	[]byte("Reading changelogs..."),
}

// Changelog pagers drive the cursor themselves; their output always passes
// straight through.
var changelogs = []byte("Reading changelogs...")

// The dpkg conffile prompt, line by line. The last line carries the variable
// filename, so only its fixed segments are matched.
var confPrompt = [][]byte{
	[]byte("Configuration file '"),
	[]byte("==> Modified (by you or by a script) since installation.\r\n"),
	[]byte(" ==> Package distributor has shipped an updated version.\r\n"),
	[]byte("   What would you like to do about it ?  Your options are:\r\n"),
	[]byte("    Y or I  : install the package maintainer's version\r\n"),
	[]byte("    N or O  : keep your currently-installed version\r\n"),
	[]byte("      D     : show the differences between the versions\r\n"),
	[]byte("      Z     : start a shell to examine the situation\r\n"),
	[]byte(" The default action is to keep your current version.\r\n"),
	[]byte("(Y/I/N/O/D/Z)"),
}

// confFinalPrefix starts the prompt's final line: "*** <file> (Y/I/N/O/D/Z)
// [default=N] ?".
var confFinalPrefix = []byte("*** ")

// Single-byte answers dpkg accepts at the conffile prompt.
var confAnswers = []byte("yYiInNoO")
