// Package jobs implements background processing that runs independently of
// the Discord event handlers.
//
// # Job Types
//
//   - RoleGuard: periodically strips dangerous permissions from protected
//     slot roles across all configured guilds
//
// # Lifecycle
//
// All jobs follow the same lifecycle:
//
//	guard := jobs.NewRoleGuard(repo, sanitizer, interval, slots)
//	guard.Start()
//	defer guard.Stop()
//
// Start is idempotent and Stop waits for the in-flight pass to finish. Jobs
// log errors but don't crash the application.
package jobs
