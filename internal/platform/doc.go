// Package platform provides OS integration helpers: filename sanitization,
// directory handling, and revealing a finished file in the system file
// manager.
package platform
