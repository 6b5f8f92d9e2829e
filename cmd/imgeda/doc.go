// Command imgeda is the dataset QA command line: it scans image trees
// into durable manifests and runs duplicate, leakage, gate, report and
// export analyses over them.
package main
