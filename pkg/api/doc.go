// Package api holds the request and response messages of the duitraya.v1
// RPC services. Messages are plain structs carried as JSON; field names on
// the wire are camelCase.
//
// Optional fields are pointers. A nil pointer means "not provided", which
// is how partial updates and the optional year filters are expressed.
package api
