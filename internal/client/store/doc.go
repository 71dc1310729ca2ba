// Package store holds the client-side application state: the Session and one
// Container per resource (articles, categories, comments).
//
// State changes only through container actions. Actions on one container run
// one at a time; reads never wait for an action's network call and always
// return copies.
package store
