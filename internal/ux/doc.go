// Package ux holds the operator-facing pieces of a run: the client folder
// listing, the interactive picker, and the console styles.
package ux
