// Package mailer renders markdown messages and hands them to a [Sender].
//
// Bodies are text/template markdown with optional YAML frontmatter. The
// template runs against caller data (form values, for the mail module), the
// result is converted to HTML with goldmark and wrapped in a layout:
//
//	---
//	subject: New enquiry from {{ .name }}
//	---
//	**{{ .name }}** wrote:
//
//	{{ .message }}
//
// The Resend sender lives in the resend subpackage. [LogSender] writes
// messages to a logger and is used when no provider is configured.
package mailer
