// Package gateway is the single entry point for every call the client makes
// to the backend.
//
// Gateway.Do attaches the session credential as a bearer token, defaults the
// content type of bodies to JSON, and sends the request to the configured
// base address. The response is returned unparsed. A 401 from any endpoint
// tears the session down before the response reaches the caller.
package gateway
