// Package validator collects configuration problems and reports them.
//
// A [Result] holds [Issue] values of three severities. Errors make the
// file unusable. Warnings flag things that work today but should change,
// such as a legacy file location waiting to be migrated. Infos are notes.
//
// The Check functions fill a Result from the outcome of loading a project
// config:
//
//	result := &validator.Result{Path: loc.Found}
//	validator.CheckLocation(result, loc)
//	validator.CheckLoad(result, err)
//	validator.CheckConfig(result, cfg)
//
// [Reporter] renders a Result as coloured text or JSON.
package validator
