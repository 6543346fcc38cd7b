// Package executor runs external commands synchronously with captured output.
//
// Every invocation blocks the caller until the process exits. Non-zero exit
// statuses surface as *CommandError values carrying the joined command line
// and the captured standard error, which the pipeline reports verbatim to the
// operator.
package executor
