package messages

// Install, catalog and lifecycle messages.
const (
	// CatalogEntryMissing is the root of the CatalogEntryMissing condition.
	CatalogEntryMissing         = "version not found in catalog"
	CatalogEntryMissingFmt      = "%w: Go %s; run 'govm list-remote --all' to see available versions"
	CatalogNoPlatformBinary     = "no binary available for platform"
	CatalogNoPlatformBinaryFmt  = "%w: %s/%s (Go %s)"
	CatalogCreateRequestFmt     = "create catalog request: %w"
	CatalogFetchFmt             = "fetch catalog %s: %w"
	CatalogFetchStatusFmt       = "fetch catalog %s: unexpected status %s"
	CatalogDecodeFmt            = "decode catalog %s: %w"
	CatalogNetworkDisabledFmt   = "catalog is not cached and network access is disabled via %s"
	CatalogCacheHit             = "using cached catalog"
	CatalogCacheWriteFailed     = "failed to write catalog cache"
	CatalogCacheDisabled        = "catalog cache disabled"
	CatalogRetryBudgetExhausted = "retry budget exhausted"

	// InstallDestinationRequired indicates an empty destination dir.
	InstallDestinationRequired   = "install destination is required"
	InstallNetworkDisabledFmt    = "cannot download Go %s: network access disabled via %s"
	InstallCreateDirFmt          = "create dir %s: %w"
	InstallCreateTempFileFmt     = "create temp file: %w"
	InstallSyncTempFileFmt       = "sync temp file: %w"
	InstallCloseTempFileFmt      = "close temp file: %w"
	InstallDownloadFailedFmt     = "download %s: %w"
	InstallDownloadStatusFmt     = "download %s: unexpected status %s"
	InstallDownloadTooLargeFmt   = "download %s: response too large (%d bytes > limit %d bytes)"
	InstallOpenFileFmt           = "open %s: %w"
	InstallChecksumMismatchFmt   = "checksum mismatch for %s (expected %s, got %s)"
	InstallUnsupportedArchiveFmt = "unsupported archive %s (expected .tar.gz)"
	InstallExtractFmt            = "extract %s: %w"
	InstallUnsafeArchivePathFmt  = "archive entry %q escapes the extraction directory"
	InstallArchiveMissingRootFmt = "archive %s does not contain a top-level %q directory"
	InstallPublishFmt            = "move %s into place: %w"
	InstallDownloadingFmt        = "Downloading Go %s (%s)...\n"
	InstallExtractingFmt         = "Extracting %s...\n"
	InstallAlreadyPublished      = "install directory appeared while waiting for lock"

	// ManagerInvalidVersion is the root of the invalid version condition.
	ManagerInvalidVersion       = "invalid version"
	ManagerInvalidVersionFmt    = "%w %q"
	ManagerInstallerRequired    = "installer is required"
	ManagerInstallerContract    = "installer reported success but nothing was installed"
	ManagerInstallerContractFmt = "%w (expected %s)"
	ManagerWriteMarkerFmt       = "write version marker %s: %w"
	ManagerClearGlobalFmt       = "clear global version %s: %w"
	ManagerNegativeKeepFmt      = "keep must be >= 0, got %d"
	ManagerConfirmerRequired    = "prune requires a confirmation handler"
	ManagerResolveExecutableFmt = "resolve govm executable: %w"
)
