// Package security hashes passwords and issues and checks bearer access tokens.
package security
