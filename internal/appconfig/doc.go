// Package appconfig loads and edits the per-repository apibuilder project
// configuration.
//
// A project config lives at .apibuilder/config in the working directory or
// the repository root. Older layouts used a flat .apibuilder or .apidoc file;
// those are found too and moved into place by Locator.Migrate.
//
// The file has three top-level sections:
//
//	settings:
//	  code.create.directories: true
//	attributes:
//	  generators:
//	    play_*:
//	      scala_version: 2.13
//	code:
//	  acme:
//	    svc:
//	      version: 1.0.0
//	      generators:
//	        play_2_8_client: app/clients
//
// Document keeps the raw YAML tree so a version change can be written back
// without disturbing ordering or comments. Config is the typed, validated
// view derived from it.
//
// Effective generator attributes start from the generator's inline
// attributes. Global rules whose pattern matches the generator name then
// fill in missing keys in declaration order.
package appconfig
