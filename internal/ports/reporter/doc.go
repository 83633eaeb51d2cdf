// Package reporter writes the collected call metrics as indented JSON. The
// driver uses it to print a summary once the profiled run has finished.
package reporter
