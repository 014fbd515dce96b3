// Package controller talks to the SD-WAN controller REST API.
//
// It contains the two stateful pieces of sdwan-mcp:
//
//   - SessionManager owns the single authenticated Session (JSESSIONID cookie
//     plus CSRF token) and is the only component that calls the login, token
//     and logout endpoints. A Session is immutable; re-authentication replaces
//     it wholesale.
//   - Client is the request executor. Every call ensures a session, attaches
//     the cookie and token, and on an authentication-rejected response
//     re-authenticates once and retries once. A second rejection is returned
//     as a RequestError with Exhausted set; there is no further retry.
//
// What counts as "authentication rejected" differs between controller
// versions, so it is decided by an AuthFailureDetector built from
// configuration (status codes, login-page body markers, login redirects).
//
// Tool calls may arrive concurrently on the HTTP transports, so session state
// is guarded by a mutex and concurrent logins are collapsed with singleflight.
//
// Example:
//
//	client := controller.NewClient(cfg)
//	devices, err := client.Devices(ctx)
//	if err != nil {
//	    var reqErr *controller.RequestError
//	    if errors.As(err, &reqErr) && reqErr.Cause == controller.CauseTimeout {
//	        // transient, try again later
//	    }
//	}
package controller
