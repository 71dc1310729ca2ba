// Package resources maps the logical blog operations (articles, categories,
// comments, users, uploads) onto REST calls through the api adapter.
//
// Create and update endpoints answer with {id} or no data at all, so every
// write pre-fills the returned entity from its input and lets the response
// overlay whatever the server did send.
package resources
