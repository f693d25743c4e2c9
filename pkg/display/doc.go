// Package display provides unified display and formatting for modup output.
//
// This package consolidates the formatting helpers shared by the list,
// check, update, and backups commands.
//
// Value Formatting:
//
// Use formatting functions for consistent value display:
//
//	installed := display.SafeInstalledValue(mod.Version)   // Returns "#N/A" if empty
//	target := display.SafeTargetValue(policy.TargetLabel()) // Returns "*" if unconstrained
//
// Status Formatting:
//
// Use status functions for consistent status display with icons:
//
//	status := display.FormatStatus("Applied")  // Returns "🟢 Applied"
//	verdict := display.FormatVerdict(resolve.UpgradeAvailable)
//
// Messages:
//
// Use message functions for consistent user feedback:
//
//	display.PrintWarnings(os.Stderr, warnings)
//	display.PrintNoModsMessage(os.Stdout, "matching exclusions")
//
// For table output, use the pkg/output package directly.
package display
