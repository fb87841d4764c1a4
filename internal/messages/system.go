package messages

// System messages for resolution, dispatch, registry and shim operations.
const (
	// DispatchSystemRequired indicates a nil System was supplied.
	DispatchSystemRequired     = "dispatch system is required"
	DispatchWorkingDirRequired = "working directory is required"
	DispatchBinaryRequired     = "binary name is required"

	// DispatchNoVersionConfigured is the root of the NoVersionConfigured condition.
	DispatchNoVersionConfigured    = "no Go version configured"
	DispatchNoVersionConfiguredFmt = "%w; run 'govm global <version>' or create a %s file with 'govm local <version>'"
	DispatchVersionNotInstalledFmt = "%w: Go %s is required by the current configuration (%s); run 'govm install %s'"
	DispatchBinaryNotFound         = "binary not found"
	DispatchBinaryNotFoundFmt      = "%w: command %q not found in Go %s"
	DispatchCheckBinaryFmt         = "check binary %s: %w"
	DispatchExecFailedFmt          = "exec %s: %w"

	// DispatchMarkerReadSkipped is logged when a candidate marker file cannot be read.
	DispatchMarkerReadSkipped = "skipping unreadable version marker"
	DispatchMarkerEmpty       = "ignoring empty version marker"

	// RegistryNotInstalled is the root of the NotInstalled condition.
	RegistryNotInstalled       = "version not installed"
	RegistryNotInstalledFmt    = "%w: Go %s is not installed; run 'govm install %s' first"
	RegistryReadVersionsDirFmt = "read versions dir %s: %w"
	RegistryStatFmt            = "stat %s: %w"
	RegistryRenameForRemoveFmt = "move %s aside for removal: %w"
	RegistryRemoveFmt          = "remove %s: %w"

	// ShimCreateDirFmt formats shim dir creation errors.
	ShimCreateDirFmt       = "create shims dir %s: %w"
	ShimWriteFmt           = "write shim %s: %w"
	ShimChmodFmt           = "make shim %s executable: %w"
	ShimReadFmt            = "read shim %s: %w"
	ShimExecutableRequired = "manager executable path is required"
	ShimInvalidBinaryFmt   = "invalid binary name %q"
	ShimHeader             = "# Shim created by govm - DO NOT EDIT"
	ShimBoundToFmt         = "# govm: %s"
	ShimRewritten          = "rewrote shim"
	ShimCreated            = "created shim"
	ShimRefreshFailed      = "failed to refresh shims"

	// FsutilCreateTempFileFmt formats temp file creation errors.
	FsutilCreateTempFileFmt = "create temp file for %s: %w"
	FsutilSetPermissionsFmt = "set permissions for %s: %w"
	FsutilWriteTempFileFmt  = "write temp file for %s: %w"
	FsutilSyncTempFileFmt   = "sync temp file for %s: %w"
	FsutilCloseTempFileFmt  = "close temp file for %s: %w"
	FsutilRenameTempFileFmt = "rename temp file for %s: %w"
	FsutilOpenLockFmt       = "open lock %s: %w"
	FsutilLockFmt           = "lock %s: %w"
	FsutilLockTimeoutFmt    = "timed out waiting for lock %s after %s"
)
