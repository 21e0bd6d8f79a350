// Package main provides the entry point for the privacyrank CLI.
//
// privacyrank ranks websites by privacy and security score and
// classifies each one as Good, Moderate or High Risk.
//
// Usage:
//
//	privacyrank analyze google.ca
//	privacyrank rank
//	privacyrank compare google.ca facebook.com
//
// See --help for all available options.
package main

func main() {
	Execute()
}
