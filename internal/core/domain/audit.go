package domain

import "time"

// AuditEventType names an authentication event kept in the audit log.
type AuditEventType string

const (
	AuditLogin         AuditEventType = "login"
	AuditLoginFailed   AuditEventType = "login_failed"
	AuditRegister      AuditEventType = "register"
	AuditOAuthLogin    AuditEventType = "oauth_login"
	AuditOAuthSignup   AuditEventType = "oauth_signup"
	AuditOAuthLink     AuditEventType = "oauth_link"
	AuditOAuthRejected AuditEventType = "oauth_rejected"
	AuditAuthorDeleted AuditEventType = "author_deleted"
)

// AuditEvent records the outcome of an authentication-related action.
type AuditEvent struct {
	Type      AuditEventType
	AuthorID  string
	Email     string
	IP        string
	Success   bool
	Error     string
	Timestamp time.Time
}
