// Package preflight provides readiness checks for the external tools and
// filesystem paths av3atool depends on.
//
// These checks run in two contexts:
//   - The pipeline calls RunAll before its first stage so an unwritable
//     output directory fails before any subprocess starts.
//   - The CLI "av3atool status" command uses CheckSystemDeps and
//     CheckDirectoryAccess to display tool and directory health.
package preflight
