// Package middleware provides the per-request bearer-token filter.
//
// The filter runs once per inbound request, before route dispatch, as one
// stage of an explicit middleware pipeline. It only inspects the
// Authorization header: requests without a bearer token pass through
// untouched and endpoint-level policy decides whether they are admitted;
// requests presenting an invalid or expired token are rejected with 401
// before any handler runs. Validation is a signature check plus a clock
// comparison, so the filter never performs I/O.
package middleware
