// Package api is the HTTP adapter every resource call goes through.
//
// # Overview
//
// Client prefixes paths with the configured base URL, applies a fixed
// timeout, injects "Authorization: Bearer <token>" whenever the TokenSource
// holds a credential, and tags each request with an X-Request-ID.
//
// Successful (2xx) responses are handed back untouched as *Response so
// callers keep access to status and headers; Response.Decode unwraps the
// backend envelope {code, message, data} into a typed value.
//
// # Error Handling
//
// Every failure is a *common.RequestError:
//   - transport failures and timeouts: common.ErrUnavailable
//   - 401: common.ErrUnauthorized, after the stored credential was cleared
//     and the unauthorized handler (navigation to sign-in) ran
//   - any other status: common.ErrApplication with the server's message
//
// A 401 is therefore a process-wide event: any caller must expect the
// session to end as a side effect of an unrelated request failing.
package api
