// Package artifact resolves which PDF belongs to a job and fetches it.
//
// Resolution depends only on job status. Signed and completed jobs resolve
// from the saved record paths and never fall back to step outputs; a job
// whose PDF just became ready resolves from the final step's output files
// with the job-level pdf path as fallback. Any other status has no artifact.
package artifact
