// Package model defines the guild configuration record, the role slots it
// binds, and the audit trail of who granted which role to whom.
package model
