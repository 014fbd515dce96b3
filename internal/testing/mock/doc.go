// Package mock provides a stub SD-WAN controller for tests.
//
// Controller is an httptest server that speaks the controller's login
// protocol (form login issuing a JSESSIONID cookie, then a CSRF token
// endpoint) and serves data endpoints under /dataservice wrapped in the
// {"data": ...} envelope.
//
// Every endpoint counts its hits so tests can assert how many logins, token
// fetches and data attempts a call produced. Faults can be injected:
//
//   - RejectNext makes the next N data calls fail with an auth signal
//     (status code, redirect to the login page, or the login page itself)
//   - FailTokenFetch makes the token endpoint fail
//   - SetDelay slows data responses down to trigger client timeouts
//   - SetStatus and SetRawBody override a data endpoint's response
//
// LoadFabric installs a small but complete fabric (devices, counters,
// interfaces, BFD sessions and tunnels) used by the analytics and tool tests.
package mock
