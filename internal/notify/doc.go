// Package notify renders and sends applicant decision emails.
//
// A Dispatcher renders an approval or decline message and hands it to a
// Transport synchronously. Rendering is either plain text ("simple mode") or an
// HTML document with a derived plain-text alternative and an optional inline
// footer image. Transport failures are returned to the caller as apperr
// notification errors; deciding whether to surface them is the caller's job.
//
// When no SMTP host is configured NewFromConfig returns a no-op dispatcher.
package notify
