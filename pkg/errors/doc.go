// Package errors provides structured error types used across the build
// pipeline so that callers can branch on a failure class instead of on
// message text.
//
// Every failure surfaced to the build invoker carries one of the codes below:
//
//   - ErrCodeConfig: configuration file missing or unreadable, invalid patch,
//     or schema violation
//   - ErrCodeUnsupportedFormat: unknown package type short name
//   - ErrCodeProcessExecution: subprocess spawn failure or non-zero exit
//   - ErrCodeIO: directory creation, removal, rename, or template writes
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeProcessExecution,
//	    "error running bundle_dmg.sh",
//	    cause,
//	    map[string]any{
//	        "command": "bundle_dmg.sh",
//	        "dir":     bundleDir,
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeProcessExecution) {
//	    // ...
//	}
package errors
