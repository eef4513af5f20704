// Package cookie carries the session token between the server and the
// browser.
//
// A [Jar] abstracts the two call contexts a session is resolved from: a
// request handler ([RequestJar], which parses the raw Cookie header) and a
// render context holding a pre-split cookie map ([MapJar]). [Transport] is
// the one reader and writer both go through, so cookie parsing rules cannot
// drift between them.
//
// Session cookies are always HttpOnly, SameSite=Lax by default, and Secure
// when the caller asks for it.
package cookie
