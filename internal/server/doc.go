// Package server provides the HTTP view layer over the identity store, the favorites store and the catalog.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] patterns ("GET /characters", "POST /favorites/{kind}/{id}").
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Routes
//
//	POST /login                 JSON or form credentials; success redirects to /favorites
//	POST /register              requires confirm_password and a 6+ character password
//	POST /logout
//	GET  /login, /session       current session
//	GET  /characters            ?page=&name=&status=&species=
//	GET  /episodes              ?page=&name=&episode=
//	GET  /locations             ?page=&name=&type=&dimension=
//	GET  /favorites             session required, 303 to /login otherwise
//	GET  /favorites/ids         session required
//	POST /favorites/{kind}/{id} toggle; 401 without a session
//
// Anything else redirects to /characters.
//
// Listings answer with an empty results array and an "error" message when the catalog fails.
package server
