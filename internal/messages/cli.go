package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse              = "govm"
	RootShort            = "Install and switch between Go toolchain versions"
	RootLong             = "govm installs Go toolchains side by side and routes go and gofmt through shims\nto the version selected by GOVM_VERSION, the nearest .go-version file, or the global default."
	RootVerboseFlag      = "Increase log verbosity (-v info, -vv debug, -vvv trace)"
	RootShimsPathHintFmt = "Add %s to the front of your PATH to use the selected Go version.\n"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt   = "%s [Y/n]: "
	PromptNoDefaultFmt    = "%s [y/N]: "
	PromptInvalidResponse = "invalid response %q"
	PromptRetryYesNo      = "Please enter y or n."

	// InstallUse is the install command usage.
	InstallUse          = "install <version>"
	InstallShort        = "Download and install a Go version"
	InstallAlreadyFmt   = "Go %s is already installed\n"
	InstallSucceededFmt = "Go %s installed successfully!\n"
	InstallGlobalSetFmt = "Set Go %s as the global default\n"
	ShimCreatedLineFmt  = "Created shim %s\n"
	ShimUpdatedLineFmt  = "Updated shim %s\n"

	// UseUse is the use command usage.
	UseUse         = "use <version>"
	UseShort       = "Install a version if needed and select it"
	UseFlagLocal   = "Write a .go-version file in the current directory instead of the global default"
	UseSelectedFmt = "Now using Go %s (%s: %s)\n"

	// GlobalUse is the global command usage.
	GlobalUse      = "global [version]"
	GlobalShort    = "Show or set the global default version"
	GlobalUnsetFmt = "No global version set; run 'govm global <version>'\n"
	GlobalSetFmt   = "Global version set to Go %s\n"

	// LocalUse is the local command usage.
	LocalUse    = "local <version>"
	LocalShort  = "Pin a version for the current directory"
	LocalSetFmt = "Wrote Go %s to %s\n"

	// CurrentUse is the version command usage.
	CurrentUse             = "version"
	CurrentShort           = "Show the active Go version and where it was selected"
	CurrentFmt             = "%s (%s)\n"
	CurrentNotInstalledFmt = "This version is not installed. Run: govm install %s\n"
	CurrentNoneConfigured  = "No Go version configured"
	CurrentHintGlobal      = "Set a global version: govm global <version>"
	CurrentHintLocal       = "Or create a local .go-version file: govm local <version>"

	// VersionsUse is the versions command name.
	VersionsUse           = "versions"
	VersionsShort         = "List installed Go versions"
	VersionsNone          = "No Go versions installed"
	VersionsNoneHint      = "Run govm list-remote to see available versions"
	VersionsHeader        = "Installed Go versions:"
	VersionsCurrentMarker = "*"
	VersionsGlobalLabel   = "(global)"

	// ListRemoteUse is the list-remote command name.
	ListRemoteUse       = "list-remote"
	ListRemoteShort     = "List Go versions available for download"
	ListRemoteFlagAll   = "Include release candidates and betas"
	ListRemoteFlagLimit = "Maximum number of versions to show (0 for no limit)"
	ListRemoteHeader    = "Available Go versions:"
	ListRemoteUnstable  = "(unstable)"
	ListRemoteInstalled = "(installed)"
	ListRemoteAllHint   = "Use govm list-remote --all to see all versions including RCs and betas"

	// UninstallUse is the uninstall command usage.
	UninstallUse             = "uninstall <version>"
	UninstallShort           = "Remove an installed Go version"
	UninstallNotInstalledFmt = "Go %s is not installed\n"
	UninstallClearedGlobal   = "Cleared global version"
	UninstallDoneFmt         = "Go %s has been uninstalled\n"

	// WhichUse is the which command usage.
	WhichUse   = "which [binary]"
	WhichShort = "Print the path of the binary the active version would run"

	// ExecUse is the exec command usage.
	ExecUse            = "exec <binary> [args...]"
	ExecShort          = "Run a binary from the active Go version"
	ExecBinaryRequired = "exec requires a binary name"

	// RehashUse is the rehash command name.
	RehashUse      = "rehash"
	RehashShort    = "Regenerate all shims"
	RehashStarting = "Regenerating shims..."
	RehashDoneFmt  = "Shims regenerated in %s\n"

	// PruneUse is the prune command name.
	PruneUse           = "prune"
	PruneShort         = "Remove old versions, keeping the newest ones and the global default"
	PruneFlagKeep      = "Number of newest versions to keep"
	PruneFlagYes       = "Remove without asking for confirmation"
	PruneNothingFmt    = "Nothing to prune. %d versions installed, keeping %d.\n"
	PruneProtectedFmt  = "Keeping Go %s (global default)\n"
	PruneHeader        = "The following versions will be removed:"
	PruneConfirmPrompt = "Remove these versions?"
	PruneCancelled     = "Prune cancelled"
	PruneRemovedFmt    = "Removed Go %s\n"
	PruneDoneFmt       = "Pruned %d version(s)\n"
	PruneKeepingFmt    = "Keeping %s\n"

	// ConfigUse is the config command name.
	ConfigUse   = "config"
	ConfigShort = "Print the effective configuration"
)
