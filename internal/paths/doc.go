// Package paths centralises the file system locations used by apibuilder.
//
// Project configuration lives in <root>/.apibuilder/config; the legacy flat
// files <root>/.apibuilder and <root>/.apidoc are still recognized so they can
// be migrated. User-level configuration lives in ~/.apibuilder/config, with
// the XDG config home (~/.config/apibuilder/config on Linux) as a secondary
// location.
package paths
