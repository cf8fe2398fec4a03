// Package errors provides error handling conventions for the apibuilder CLI.
//
// It re-exports the wrapping helpers from github.com/cockroachdb/errors so
// every package builds error chains the same way, and defines [ExitError]
// which carries a process exit code and an optional suggestion:
//
//	err := errors.NewUserError(errors.Wrap(err, "loading config"), "Check .apibuilder/config")
//	os.Exit(errors.ExitCode(err))
//
// Exit codes follow Unix conventions:
//
//   - ExitSuccess (0): command completed successfully
//   - ExitUser (1): invalid input or configuration
//   - ExitSystem (2): I/O, permissions or git failures
package errors
