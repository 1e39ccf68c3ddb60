// Package service implements the business logic layer.
//
// Services sit between the Discord layer and the repositories:
//
//   - AssignmentService toggles slot role membership behind a fixed guard
//     chain and keeps the who-added-whom audit trail consistent with the
//     platform state it mutates.
//   - GuildConfigService manages per-guild settings: slot bindings, role
//     limits, the invoker allow-list and recipient eligibility.
//
// Services depend on interfaces (GuildConfigRepositoryInterface,
// RoleManager) declared in this package, so tests can swap in mocks without
// touching a real database or gateway connection. All rule violations are
// reported through the sentinel errors in errors.go; platform and storage
// failures wrap ErrPlatform.
package service
