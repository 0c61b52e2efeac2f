// Package myfxbook provides a client for the Myfxbook web API.
//
// Endpoints:
//   - Production: https://www.myfxbook.com/api/<endpoint>.json
//
// Every call is an HTTP POST with an empty body; all parameters, including the
// session token, travel in the query string. Replies share a JSON envelope of
// {"error": bool, "message": string} plus endpoint-specific fields.
//
// The client logs in lazily on the first authenticated call and reuses the
// session for every later call. Concurrent callers on a fresh client share a
// single login request.
package myfxbook
