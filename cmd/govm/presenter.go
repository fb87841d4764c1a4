package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/govm/internal/manager"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/shim"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// printShimResults lists written shims. Diffs of rewritten shims are shown
// when showDiff is set.
func printShimResults(out io.Writer, results []shim.Result, showDiff bool) {
	for _, r := range results {
		switch r.Action {
		case shim.ActionCreated:
			_, _ = fmt.Fprintf(out, messages.ShimCreatedLineFmt, green(r.Path))
		case shim.ActionUpdated:
			_, _ = fmt.Fprintf(out, messages.ShimUpdatedLineFmt, yellow(r.Path))
			if showDiff && r.Diff != "" {
				_, _ = fmt.Fprint(out, r.Diff)
			}
		}
	}
}

// createdAny reports whether any shim was created from scratch.
func createdAny(results []shim.Result) bool {
	for _, r := range results {
		if r.Action == shim.ActionCreated {
			return true
		}
	}
	return false
}

func printInstallResult(out io.Writer, res manager.InstallResult, shimsDir string, showDiff bool) {
	if res.AlreadyInstalled {
		_, _ = fmt.Fprintf(out, messages.InstallAlreadyFmt, res.Version)
		return
	}
	_, _ = fmt.Fprint(out, color.GreenString(messages.InstallSucceededFmt, res.Version))
	printShimResults(out, res.Shims, showDiff)
	if createdAny(res.Shims) {
		_, _ = fmt.Fprintf(out, messages.RootShimsPathHintFmt, shimsDir)
	}
	if res.GlobalSet {
		_, _ = fmt.Fprintf(out, messages.InstallGlobalSetFmt, res.Version)
	}
}

func printStatus(out io.Writer, status manager.Status) {
	if !status.Configured {
		_, _ = fmt.Fprintln(out, yellow(messages.CurrentNoneConfigured))
		_, _ = fmt.Fprintln(out, messages.CurrentHintGlobal)
		_, _ = fmt.Fprintln(out, messages.CurrentHintLocal)
		return
	}
	res := status.Resolution
	_, _ = fmt.Fprintf(out, messages.CurrentFmt, bold(res.Version), res.Describe())
	if !status.Installed {
		_, _ = fmt.Fprint(out, color.YellowString(messages.CurrentNotInstalledFmt, res.Version))
	}
}

func printInstalled(out io.Writer, versions []manager.InstalledVersion) {
	if len(versions) == 0 {
		_, _ = fmt.Fprintln(out, messages.VersionsNone)
		_, _ = fmt.Fprintln(out, messages.VersionsNoneHint)
		return
	}
	_, _ = fmt.Fprintln(out, messages.VersionsHeader)
	for _, v := range versions {
		_, _ = fmt.Fprintln(out, versionLine(v.Version, v.Current, labelIf(v.Global, messages.VersionsGlobalLabel)))
	}
}

func printRemote(out io.Writer, versions []manager.RemoteVersion, all bool) {
	_, _ = fmt.Fprintln(out, messages.ListRemoteHeader)
	for _, v := range versions {
		labels := []string{
			labelIf(!v.Stable, messages.ListRemoteUnstable),
			labelIf(v.Installed, messages.ListRemoteInstalled),
		}
		_, _ = fmt.Fprintln(out, versionLine(v.Version, v.Current, labels...))
	}
	if !all {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, messages.ListRemoteAllHint)
	}
}

func printPrunePlan(out io.Writer, plan manager.PrunePlan) {
	_, _ = fmt.Fprintln(out, messages.PruneHeader)
	for _, v := range plan.Remove {
		_, _ = fmt.Fprintf(out, "  %s\n", red(v))
	}
	if len(plan.Retained) > 0 {
		_, _ = fmt.Fprintf(out, messages.PruneKeepingFmt, strings.Join(plan.Retained, ", "))
	}
	if plan.Protected != "" {
		_, _ = fmt.Fprintf(out, messages.PruneProtectedFmt, plan.Protected)
	}
}

// versionLine renders one listing row. The current version is marked and
// highlighted.
func versionLine(v string, current bool, labels ...string) string {
	marker := " "
	name := v
	if current {
		marker = messages.VersionsCurrentMarker
		name = green(v)
	}
	parts := []string{marker, name}
	for _, l := range labels {
		if l != "" {
			parts = append(parts, cyan(l))
		}
	}
	return "  " + strings.Join(parts, " ")
}

func labelIf(ok bool, label string) string {
	if ok {
		return label
	}
	return ""
}
