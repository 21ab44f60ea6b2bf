// Package cli implements the interactive Gatekeeper command line.
//
// The REPL keeps one signed-in identity per process. Commands:
//
//	signup [link|key]      create an account from an invitation
//	signin                 authenticate with username and password
//	renew                  rotate the token pair
//	signout                end the session of this device
//	invite                 create a registration link (signed in)
//	check-invite link|key  check an invitation without using it
//	whoami                 show the session bound to this device
//	help, exit | quit
//
// Passwords are read from the terminal without echo.
package cli
