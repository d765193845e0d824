package app

// Flags bundles every global flag spec §6 lists, gathered once by the
// dispatcher (cmd/cb's parseFlags does the pflag-based parsing;
// this struct is the plain-data result threaded through the Invocation).
type Flags struct {
	All             bool
	FastCopy        bool
	Mime            string
	NoProgress      bool
	NoConfirmation  bool
	Clipboard       string
	Entry           string
	Help            bool
	Bachata         bool
}
