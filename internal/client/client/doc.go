// Package client contains the CLI's transport and local storage bootstrap.
//
// Client is the account API contract; HTTPClient implements it over JSON
// HTTP. Network failures wrap ErrUnavailable and non-2xx answers are
// returned as *APIError, which matches ErrUnauthorized for 401 and 403.
//
// InitDatabase opens the local SQLite file holding the remembered session
// and applies the embedded goose migrations.
package client
